package shop

// Log messages
const (
	LogMsgCatalogLoaded   = "Shop catalog loaded"
	LogMsgUpgradeBought   = "Upgrade purchased"
	LogMsgPurchaseBlocked = "Purchase rejected"
)

// Catalog error messages
const (
	ErrMsgReadCatalog   = "failed to read shop catalog"
	ErrMsgParseCatalog  = "failed to parse shop catalog"
	ErrMsgEmptyCatalog  = "shop catalog has no items"
	ErrMsgUnknownItem   = "unknown item in shop catalog"
	ErrMsgDuplicateItem = "duplicate item in shop catalog"
	ErrMsgInvalidItem   = "invalid shop catalog entry"
)
