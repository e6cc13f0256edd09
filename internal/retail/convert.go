package retail

import (
	"cloud.google.com/go/retail/apiv2/retailpb"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// DefaultCurrency is used for imported prices that carry no currency.
const DefaultCurrency = "EUR"

// toProtoProduct maps a commerce product onto a retail catalog product.
func toProtoProduct(cfg Config, p CatalogProduct, currency string) *retailpb.Product {
	out := &retailpb.Product{
		Name:         cfg.ProductPath(p.ID),
		Id:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Availability: retailpb.Product_OUT_OF_STOCK,
	}
	if p.ProductType != "" {
		out.Categories = []string{p.ProductType}
	}
	if p.Available {
		out.Availability = retailpb.Product_IN_STOCK
	}
	if p.Price != nil {
		code := p.Currency
		if code == "" {
			code = currency
		}
		if code == "" {
			code = DefaultCurrency
		}
		out.PriceInfo = &retailpb.PriceInfo{
			Price:        float32(p.Price.InexactFloat64()),
			CurrencyCode: code,
		}
	}
	for _, uri := range p.Images {
		out.Images = append(out.Images, &retailpb.Image{Uri: uri})
	}

	attrs := make(map[string]*retailpb.CustomAttribute)
	if p.Vendor != "" {
		attrs["vendor"] = &retailpb.CustomAttribute{Text: []string{p.Vendor}}
	}
	if len(p.Tags) > 0 {
		attrs["tags"] = &retailpb.CustomAttribute{Text: p.Tags}
	}
	if len(attrs) > 0 {
		out.Attributes = attrs
	}
	return out
}

// fromProtoProduct flattens a retail product for API responses.
func fromProtoProduct(p *retailpb.Product) Product {
	if p == nil {
		return Product{}
	}
	out := Product{
		ID:          p.GetId(),
		Name:        p.GetName(),
		Title:       p.GetTitle(),
		Description: p.GetDescription(),
		URI:         p.GetUri(),
		Categories:  p.GetCategories(),
	}
	if pi := p.GetPriceInfo(); pi != nil {
		price := float64(pi.GetPrice())
		out.Price = &price
		out.CurrencyCode = pi.GetCurrencyCode()
	}
	if a := p.GetAvailability(); a != retailpb.Product_AVAILABILITY_UNSPECIFIED {
		out.Availability = a.String()
	}
	for _, img := range p.GetImages() {
		out.Images = append(out.Images, img.GetUri())
	}
	return out
}

// fromSearchResult prefers the embedded product and falls back to the result id.
func fromSearchResult(r *retailpb.SearchResponse_SearchResult) Product {
	out := fromProtoProduct(r.GetProduct())
	if out.ID == "" {
		out.ID = r.GetId()
	}
	return out
}

// fromPrediction decodes the product carried in result metadata when the
// request asked for it with returnProduct.
func fromPrediction(r *retailpb.PredictResponse_PredictionResult) Product {
	out := Product{ID: r.GetId()}
	v, ok := r.GetMetadata()["product"]
	if !ok || v.GetStructValue() == nil {
		return out
	}
	raw, err := protojson.Marshal(v.GetStructValue())
	if err != nil {
		return out
	}
	var p retailpb.Product
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(raw, &p); err != nil {
		return out
	}
	full := fromProtoProduct(&p)
	if full.ID == "" {
		full.ID = out.ID
	}
	return full
}

// toProtoEvent maps a storefront event onto a retail user event.
func toProtoEvent(ev Event) *retailpb.UserEvent {
	out := &retailpb.UserEvent{
		EventType:   ev.Type,
		VisitorId:   ev.VisitorID,
		EventTime:   timestamppb.Now(),
		SearchQuery: ev.SearchQuery,
		CartId:      ev.CartID,
	}
	if ev.UserID != "" {
		out.UserInfo = &retailpb.UserInfo{UserId: ev.UserID}
	}
	for _, id := range ev.ProductIDs {
		out.ProductDetails = append(out.ProductDetails, &retailpb.ProductDetail{
			Product: &retailpb.Product{Id: id},
		})
	}
	return out
}
