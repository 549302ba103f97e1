package ecommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/providerhttp"
)

const (
	tiktokOrderListPath   = "/order/list"
	tiktokShipPath        = "/fulfillment/ship"
	tiktokProductListPath = "/products/list"
	tiktokDefaultPageSize = 50
)

// TikTokAdapter implements MarketplaceAdapter for the TikTok Shop Open API
type TikTokAdapter struct {
	config TikTokConfig
	client *providerhttp.Client
	now    func() time.Time
}

var _ integration.MarketplaceAdapter = (*TikTokAdapter)(nil)

// NewTikTokAdapter creates a TikTok Shop adapter
func NewTikTokAdapter(cfg TikTokConfig, opts ...providerhttp.Option) *TikTokAdapter {
	return &TikTokAdapter{
		config: cfg,
		client: providerhttp.NewWithOptions(integration.PlatformCodeTikTokShop.DisplayName(), opts...),
		now:    time.Now,
	}
}

// Platform returns the platform code this adapter handles
func (a *TikTokAdapter) Platform() integration.PlatformCode {
	return integration.PlatformCodeTikTokShop
}

// Mode returns AdapterModeLive
func (a *TikTokAdapter) Mode() integration.AdapterMode {
	return integration.AdapterModeLive
}

// IsConfigured reports whether every required credential is set
func (a *TikTokAdapter) IsConfigured() bool {
	return a.config.Status().Configured
}

// ConfigStatus lists the missing credential keys
func (a *TikTokAdapter) ConfigStatus() integration.ConfigStatus {
	return a.config.Status()
}

// ShopURL returns the public storefront of the shop
func (a *TikTokAdapter) ShopURL() string {
	return TikTokShopURL(a.config.ShopID)
}

// TikTokShopURL builds the storefront URL for a shop ID
func TikTokShopURL(shopID string) string {
	return "https://www.tiktok.com/@" + shopID + "/shop"
}

// ListOrders returns orders in TikTok's native shape
func (a *TikTokAdapter) ListOrders(ctx context.Context, filter integration.OrderFilter) ([]TikTokOrder, error) {
	if err := a.ConfigStatus().Err(a.client.Provider()); err != nil {
		return nil, err
	}

	size := filter.PageSize
	if size <= 0 {
		size = tiktokDefaultPageSize
	}
	ts := a.timestamp()
	req := tiktokOrderListRequest{
		tiktokCommonBody: a.commonBody(ts),
		PageSize:         size,
		PageNumber:       filter.Page + 1,
		OrderStatus:      filter.Status,
	}
	if filter.StartDate != nil {
		req.CreateTimeGE = filter.StartDate.Unix()
	}
	if filter.EndDate != nil {
		req.CreateTimeLT = filter.EndDate.Unix()
	}

	var data tiktokOrderListData
	if err := a.post(ctx, "orders.list", tiktokOrderListPath, ts, req, &data); err != nil {
		return nil, fmt.Errorf("tiktok list orders: %w", err)
	}
	return decodeEach[TikTokOrder](a.client.Provider(), data.OrderList)
}

// Ship records the tracking number of an order with its shipping provider
func (a *TikTokAdapter) Ship(ctx context.Context, orderID, trackingNumber, shippingProviderID string) error {
	if err := a.ConfigStatus().Err(a.client.Provider()); err != nil {
		return err
	}

	ts := a.timestamp()
	req := tiktokShipRequest{
		tiktokCommonBody:   a.commonBody(ts),
		OrderID:            orderID,
		TrackingNumber:     trackingNumber,
		ShippingProviderID: shippingProviderID,
	}
	if err := a.post(ctx, "orders.ship", tiktokShipPath, ts, req, nil); err != nil {
		return fmt.Errorf("tiktok ship order: %w", err)
	}
	return nil
}

// ListProducts returns the shop's products
func (a *TikTokAdapter) ListProducts(ctx context.Context) ([]TikTokProduct, error) {
	if err := a.ConfigStatus().Err(a.client.Provider()); err != nil {
		return nil, err
	}

	var data tiktokProductListData
	ts := a.timestamp()
	if err := a.post(ctx, "products.list", tiktokProductListPath, ts, a.commonBody(ts), &data); err != nil {
		return nil, fmt.Errorf("tiktok list products: %w", err)
	}
	return decodeEach[TikTokProduct](a.client.Provider(), data.Products)
}

// FetchOrders lists orders and maps them to NormalizedOrder
func (a *TikTokAdapter) FetchOrders(ctx context.Context, filter integration.OrderFilter) ([]integration.NormalizedOrder, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	orders, err := a.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]integration.NormalizedOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, tiktokToNormalized(o))
	}
	return out, nil
}

// UpdateShipment ships the order. ShippingProviderID falls back to Carrier.
func (a *TikTokAdapter) UpdateShipment(ctx context.Context, update integration.ShipmentUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	provider := update.ShippingProviderID
	if provider == "" {
		provider = update.Carrier
	}
	return a.Ship(ctx, update.OrderID, update.TrackingNumber, provider)
}

// timestamp is taken once per call so the signed query and the body agree
func (a *TikTokAdapter) timestamp() string {
	return strconv.FormatInt(a.now().Unix(), 10)
}

func (a *TikTokAdapter) commonBody(ts string) tiktokCommonBody {
	return tiktokCommonBody{
		AppKey:      a.config.AppKey,
		AccessToken: a.config.AccessToken,
		Timestamp:   ts,
		ShopID:      a.config.ShopID,
	}
}

// post sends a signed call and decodes the data member of the envelope into out
func (a *TikTokAdapter) post(ctx context.Context, operation, path, ts string, payload, out any) error {
	body, err := a.client.EncodeJSON(payload)
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("app_key", a.config.AppKey)
	query.Set("shop_id", a.config.ShopID)
	query.Set("timestamp", ts)
	query.Set("version", TikTokAPIVersion)
	if a.config.SignRequests {
		query.Set("sign", a.config.Sign(path, query, body))
	}

	var envelope tiktokEnvelope
	err = a.client.DoJSON(ctx, providerhttp.Request{
		Operation: operation,
		Method:    http.MethodPost,
		URL:       a.config.baseURL() + path + "?" + query.Encode(),
		Header:    providerhttp.JSONHeader(),
		Body:      body,
	}, &envelope)
	if err != nil {
		return err
	}
	if envelope.Code != 0 {
		return integration.NewProviderLogicError(a.client.Provider(),
			fmt.Sprintf("TikTok Shop API error: %s (code %d)", envelope.Message, envelope.Code))
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return integration.NewInvalidResponseError(a.client.Provider(), err)
	}
	return nil
}

// tiktokToNormalized maps an Open API order to the common order shape
func tiktokToNormalized(o TikTokOrder) integration.NormalizedOrder {
	items := make([]integration.OrderLine, 0, len(o.Items))
	for _, it := range o.Items {
		sku := it.SKUID
		if sku == "" {
			sku = it.ProductID
		}
		items = append(items, integration.OrderLine{
			Name:      it.ProductName,
			SKU:       sku,
			Quantity:  it.Quantity,
			UnitPrice: it.SalePrice.Decimal,
		})
	}

	addr := o.RecipientAddress
	phone := o.Buyer.Phone
	if phone == "" {
		phone = addr.Phone
	}
	return integration.NormalizedOrder{
		Platform:   integration.PlatformCodeTikTokShop,
		ExternalID: o.OrderID,
		Status:     o.OrderStatus,
		Buyer: integration.Buyer{
			Name:  o.Buyer.Name,
			Email: o.Buyer.Email,
			Phone: phone,
		},
		ShippingAddress: integration.Address{
			Name:       addr.Name,
			District:   addr.District,
			City:       addr.City,
			Region:     addr.Region,
			PostalCode: addr.PostalCode,
			Full:       addr.FullAddress,
		},
		Total:          o.Payment.Total.Decimal,
		Currency:       o.Payment.Currency,
		Items:          items,
		CreatedAt:      fromUnixSeconds(o.CreateTime),
		TrackingNumber: o.TrackingNumber,
		Source:         integration.OrderSourceLive,
		Raw:            o.RawJSON(),
	}
}
