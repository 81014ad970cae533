// Package cart holds the shopping cart aggregate and the pricing rules
// applied to it. It has no storage or transport dependencies; callers load
// a Cart, mutate it through its methods and persist it themselves.
package cart

import (
	"math"
	"sort"
	"strings"
)

// LineItem is a simple product line. Name and UnitPrice are captured when
// the product is first added and never re-synced with the catalog.
type LineItem struct {
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

func (l LineItem) Total() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// KitLine is one product inside a kit snapshot.
type KitLine struct {
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// KitItem is a bundle in the cart: either a persisted kit (KitID set) or a
// kit composed by the shopper.
type KitItem struct {
	KitID     *uint     `json:"kitId,omitempty"`
	Name      string    `json:"name"`
	Items     []KitLine `json:"items"`
	PaperType *string   `json:"paperType"`
	ExtraFee  float64   `json:"extraFee"`
}

func (k KitItem) Total() float64 {
	total := k.ExtraFee
	for _, it := range k.Items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// KitRef is a persisted kit as read from the catalog.
type KitRef struct {
	ID    uint
	Name  string
	Items []KitLine
}

// CustomKit is a kit composed by the shopper, with its fee precomputed.
type CustomKit struct {
	Name      string
	Items     []KitLine
	PaperType *string
	ExtraFee  float64
}

type Cart struct {
	SimpleItems map[uint]LineItem `json:"simpleItems"`
	KitItems    []KitItem         `json:"kitItems"`
}

func New() *Cart {
	return &Cart{
		SimpleItems: map[uint]LineItem{},
		KitItems:    []KitItem{},
	}
}

// normalize repairs nil collections after decoding.
func (c *Cart) normalize() {
	if c.SimpleItems == nil {
		c.SimpleItems = map[uint]LineItem{}
	}
	if c.KitItems == nil {
		c.KitItems = []KitItem{}
	}
}

// Normalize is called by stores after decoding a persisted document.
func (c *Cart) Normalize() *Cart {
	c.normalize()
	return c
}

// AddSimpleItem adds one unit of a product. The first add inserts the line
// with quantity 1; later adds increment it up to stock.
func (c *Cart) AddSimpleItem(productID uint, name string, unitPrice float64, stock int) error {
	c.normalize()
	if stock <= 0 {
		return ErrNoStock
	}

	line, ok := c.SimpleItems[productID]
	if !ok {
		c.SimpleItems[productID] = LineItem{
			ProductID: productID,
			Name:      name,
			UnitPrice: unitPrice,
			Quantity:  1,
		}
		return nil
	}

	if line.Quantity >= stock {
		return ErrStockLimit
	}
	line.Quantity++
	c.SimpleItems[productID] = line
	return nil
}

// UpdateSimpleItemQuantity sets the quantity of an existing line. The value
// is floored and kept at 1 or more; stock is not re-checked here.
// It reports whether the line existed.
func (c *Cart) UpdateSimpleItemQuantity(productID uint, raw float64) bool {
	c.normalize()
	line, ok := c.SimpleItems[productID]
	if !ok {
		return false
	}
	line.Quantity = ClampAtLeastOne(raw)
	c.SimpleItems[productID] = line
	return true
}

func (c *Cart) RemoveSimpleItem(productID uint) {
	c.normalize()
	delete(c.SimpleItems, productID)
}

// AddKitReference appends a snapshot of a persisted kit, without fee or
// paper type.
func (c *Cart) AddKitReference(kit KitRef) error {
	c.normalize()
	if len(kit.Items) == 0 {
		return ErrKitEmpty
	}
	id := kit.ID
	c.KitItems = append(c.KitItems, KitItem{
		KitID:    &id,
		Name:     kit.Name,
		Items:    append([]KitLine(nil), kit.Items...),
		ExtraFee: 0,
	})
	return nil
}

// AddCustomKit validates and appends a shopper-built kit as given.
func (c *Cart) AddCustomKit(kit CustomKit) error {
	c.normalize()
	name := strings.TrimSpace(kit.Name)
	if name == "" {
		return ErrKitNameRequired
	}
	if len(kit.Items) == 0 {
		return ErrKitEmpty
	}
	for _, it := range kit.Items {
		if it.ProductID == 0 || it.Quantity <= 0 || !validPrice(it.UnitPrice) {
			return ErrKitItemInvalid
		}
	}
	if !validPrice(kit.ExtraFee) {
		return ErrKitItemInvalid
	}

	var paper *string
	if kit.PaperType != nil {
		p := *kit.PaperType
		paper = &p
	}
	c.KitItems = append(c.KitItems, KitItem{
		Name:      name,
		Items:     append([]KitLine(nil), kit.Items...),
		PaperType: paper,
		ExtraFee:  kit.ExtraFee,
	})
	return nil
}

// RemoveKitItem drops the kit at index; out of range is a no-op.
func (c *Cart) RemoveKitItem(index int) bool {
	c.normalize()
	if index < 0 || index >= len(c.KitItems) {
		return false
	}
	c.KitItems = append(c.KitItems[:index:index], c.KitItems[index+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.SimpleItems = map[uint]LineItem{}
	c.KitItems = []KitItem{}
}

// Total sums every line and kit from the stored snapshots, rounded to cents.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, line := range c.Lines() {
		total += line.Total()
	}
	for _, kit := range c.KitItems {
		total += kit.Total()
	}
	return roundCents(total)
}

// Count is the number of units in simple lines plus the number of kits.
func (c *Cart) Count() int {
	n := len(c.KitItems)
	for _, line := range c.SimpleItems {
		n += line.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.SimpleItems) == 0 && len(c.KitItems) == 0
}

// Lines returns simple items ordered by product id.
func (c *Cart) Lines() []LineItem {
	lines := make([]LineItem, 0, len(c.SimpleItems))
	for _, line := range c.SimpleItems {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

// Clone returns a deep copy that shares no memory with c.
func (c *Cart) Clone() *Cart {
	out := New()
	for id, line := range c.SimpleItems {
		out.SimpleItems[id] = line
	}
	for _, kit := range c.KitItems {
		cp := kit
		cp.Items = append([]KitLine(nil), kit.Items...)
		if kit.KitID != nil {
			id := *kit.KitID
			cp.KitID = &id
		}
		if kit.PaperType != nil {
			p := *kit.PaperType
			cp.PaperType = &p
		}
		out.KitItems = append(out.KitItems, cp)
	}
	return out
}

func validPrice(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
