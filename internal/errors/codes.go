package errors

// Error codes returned in ErrorResponse.Code.
// Format: CATEGORY_DETAIL

const (
	// Auth
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"
	AuthWeakPassword       = "AUTH_WEAK_PASSWORD"

	// Authorization
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY"

	// Validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationTooLong      = "VALIDATION_TOO_LONG"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// Generic resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"
	MethodNotAllowedCode  = "METHOD_NOT_ALLOWED"

	// Catalog
	ProductNotFound     = "PRODUCT_NOT_FOUND"
	ProductInvalid      = "PRODUCT_INVALID"
	CategoryNotFound    = "CATEGORY_NOT_FOUND"
	CategoryNameExists  = "CATEGORY_NAME_EXISTS"
	KitNotFound         = "KIT_NOT_FOUND"
	KitNameRequired     = "KIT_NAME_REQUIRED"
	KitItemsRequired    = "KIT_ITEMS_REQUIRED"
	KitInvalidPaperType = "KIT_INVALID_PAPER_TYPE"

	// Cart
	CartNoStock         = "CART_NO_STOCK"
	CartStockLimit      = "CART_STOCK_LIMIT"
	CartKitEmpty        = "CART_KIT_EMPTY"
	CartKitNameRequired = "CART_KIT_NAME_REQUIRED"
	CartKitItemInvalid  = "CART_KIT_ITEM_INVALID"
	CartItemNotFound    = "CART_ITEM_NOT_FOUND"

	// Ratings and comments
	RatingInvalidProduct = "RATING_INVALID_PRODUCT"
	RatingInvalidValue   = "RATING_INVALID_VALUE"
	RatingSaveFailed     = "RATING_SAVE_FAILED"
	CommentNotFound      = "COMMENT_NOT_FOUND"
	CommentInvalid       = "COMMENT_INVALID"

	// Upload / export
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"
	ExportInvalidFormat   = "EXPORT_INVALID_FORMAT"
	ExportFailed          = "EXPORT_FAILED"

	// Internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
