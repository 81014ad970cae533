package service

// Catalog event types pushed to live listeners
const (
	EventProductRating  = "product.rating"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
	EventKitUpdated     = "kit.updated"
	EventKitDeleted     = "kit.deleted"
)

// CatalogNotifier fans catalog changes out to listeners. Delivery is best
// effort and must not block the caller.
type CatalogNotifier interface {
	Publish(eventType string, data interface{})
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, interface{}) {}

func notifierOrNoop(n CatalogNotifier) CatalogNotifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
