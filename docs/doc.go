// Package docs provides generated OpenAPI documentation.
//
// Storefront API
//
//	@title			Storefront API
//	@version		1.0
//	@description	Bundle extraction, shopping assistant chat, catalog search and recommendations for the Wow Store.
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/storefront/serve.go -o ./swagger --parseDependency --parseInternal
