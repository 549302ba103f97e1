package config

// Canonical provider credential keys. They are read verbatim from the environment
// and reported verbatim in ConfigStatus.Missing.
const (
	KeyWhatsAppPhoneNumberID     = "VITE_WHATSAPP_PHONE_NUMBER_ID"
	KeyWhatsAppAccessToken       = "VITE_WHATSAPP_ACCESS_TOKEN"
	KeyWhatsAppBusinessAccountID = "VITE_WHATSAPP_BUSINESS_ACCOUNT_ID"
	KeyWhatsAppVerifyToken       = "VITE_WHATSAPP_VERIFY_TOKEN"
	KeyWhatsAppAppSecret         = "VITE_WHATSAPP_APP_SECRET"

	KeyOpenAIAPIKey = "VITE_OPENAI_API_KEY"

	KeyTrendyolSupplierID = "VITE_TRENDYOL_SUPPLIER_ID"
	KeyTrendyolAPIKey     = "VITE_TRENDYOL_API_KEY"
	KeyTrendyolAPISecret  = "VITE_TRENDYOL_API_SECRET"

	KeyIyzicoAPIKey     = "VITE_IYZICO_API_KEY"
	KeyIyzicoSecretKey  = "VITE_IYZICO_SECRET_KEY"
	KeyIyzicoProduction = "VITE_IYZICO_PRODUCTION"

	KeyShopifyShopName    = "VITE_SHOPIFY_SHOP_NAME"
	KeyShopifyAccessToken = "VITE_SHOPIFY_ACCESS_TOKEN"

	KeyMetaAccessToken = "VITE_META_ACCESS_TOKEN"
	KeyMetaPageID      = "VITE_META_PAGE_ID"
	KeyMetaCatalogID   = "VITE_META_CATALOG_ID"
	KeyMetaPlatform    = "VITE_META_PLATFORM"

	KeyTikTokAppKey      = "VITE_TIKTOK_APP_KEY"
	KeyTikTokAppSecret   = "VITE_TIKTOK_APP_SECRET"
	KeyTikTokAccessToken = "VITE_TIKTOK_ACCESS_TOKEN"
	KeyTikTokShopID      = "VITE_TIKTOK_SHOP_ID"
	KeyTikTokRegion      = "VITE_TIKTOK_REGION"

	KeyAmazonSellerID      = "VITE_AMAZON_SELLER_ID"
	KeyAmazonMWSAuthToken  = "VITE_AMAZON_MWS_AUTH_TOKEN"
	KeyAmazonMarketplaceID = "VITE_AMAZON_MARKETPLACE_ID"
	KeyAmazonRegion        = "VITE_AMAZON_REGION"

	KeyEbayAppID       = "VITE_EBAY_APP_ID"
	KeyEbayCertID      = "VITE_EBAY_CERT_ID"
	KeyEbayDevID       = "VITE_EBAY_DEV_ID"
	KeyEbayAuthToken   = "VITE_EBAY_AUTH_TOKEN"
	KeyEbayEnvironment = "VITE_EBAY_ENVIRONMENT"
)

// DefaultWhatsAppVerifyToken is used when VITE_WHATSAPP_VERIFY_TOKEN is unset
const DefaultWhatsAppVerifyToken = "siparisbot_webhook_2024"

// credentialBindings maps viper keys to their environment variable names
var credentialBindings = map[string]string{
	"credentials.whatsapp.phone_number_id":     KeyWhatsAppPhoneNumberID,
	"credentials.whatsapp.access_token":        KeyWhatsAppAccessToken,
	"credentials.whatsapp.business_account_id": KeyWhatsAppBusinessAccountID,
	"credentials.whatsapp.verify_token":        KeyWhatsAppVerifyToken,
	"credentials.whatsapp.app_secret":          KeyWhatsAppAppSecret,
	"credentials.openai.api_key":               KeyOpenAIAPIKey,
	"credentials.trendyol.supplier_id":         KeyTrendyolSupplierID,
	"credentials.trendyol.api_key":             KeyTrendyolAPIKey,
	"credentials.trendyol.api_secret":          KeyTrendyolAPISecret,
	"credentials.iyzico.api_key":               KeyIyzicoAPIKey,
	"credentials.iyzico.secret_key":            KeyIyzicoSecretKey,
	"credentials.iyzico.production":            KeyIyzicoProduction,
	"credentials.shopify.shop_name":            KeyShopifyShopName,
	"credentials.shopify.access_token":         KeyShopifyAccessToken,
	"credentials.meta.access_token":            KeyMetaAccessToken,
	"credentials.meta.page_id":                 KeyMetaPageID,
	"credentials.meta.catalog_id":              KeyMetaCatalogID,
	"credentials.meta.platform":                KeyMetaPlatform,
	"credentials.tiktok.app_key":               KeyTikTokAppKey,
	"credentials.tiktok.app_secret":            KeyTikTokAppSecret,
	"credentials.tiktok.access_token":          KeyTikTokAccessToken,
	"credentials.tiktok.shop_id":               KeyTikTokShopID,
	"credentials.tiktok.region":                KeyTikTokRegion,
	"credentials.amazon.seller_id":             KeyAmazonSellerID,
	"credentials.amazon.mws_auth_token":        KeyAmazonMWSAuthToken,
	"credentials.amazon.marketplace_id":        KeyAmazonMarketplaceID,
	"credentials.amazon.region":                KeyAmazonRegion,
	"credentials.ebay.app_id":                  KeyEbayAppID,
	"credentials.ebay.cert_id":                 KeyEbayCertID,
	"credentials.ebay.dev_id":                  KeyEbayDevID,
	"credentials.ebay.auth_token":              KeyEbayAuthToken,
	"credentials.ebay.environment":             KeyEbayEnvironment,
}
