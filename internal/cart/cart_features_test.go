package cart

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/cucumber/godog"
)

type cartTestContext struct {
	cart *Cart
	err  error
}

func (c *cartTestContext) reset() {
	c.cart = New()
	c.err = nil
}

func (c *cartTestContext) anEmptyCart() error {
	c.reset()
	return nil
}

func (c *cartTestContext) iAddProduct(id int, name string, price float64, stock int) error {
	c.err = c.cart.AddSimpleItem(uint(id), name, price, stock)
	return nil
}

func (c *cartTestContext) iAddACustomKit(name, paper string, table *godog.Table) error {
	var items []KitLine
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		id, err := strconv.Atoi(row.Cells[0].Value)
		if err != nil {
			return err
		}
		price, err := strconv.ParseFloat(row.Cells[2].Value, 64)
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(row.Cells[3].Value)
		if err != nil {
			return err
		}
		items = append(items, KitLine{ProductID: uint(id), Name: row.Cells[1].Value, UnitPrice: price, Quantity: qty})
	}
	c.err = c.cart.AddCustomKit(CustomKit{
		Name:      name,
		Items:     items,
		PaperType: &paper,
		ExtraFee:  DefaultPaperSurcharges.Surcharge(&paper),
	})
	return nil
}

func (c *cartTestContext) iSetTheQuantity(id int, raw string) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v = math.NaN()
	}
	c.cart.UpdateSimpleItemQuantity(uint(id), v)
	return nil
}

func (c *cartTestContext) iReverseTheKits() error {
	kits := c.cart.KitItems
	for i, j := 0, len(kits)-1; i < j; i, j = i+1, j-1 {
		kits[i], kits[j] = kits[j], kits[i]
	}
	return nil
}

func (c *cartTestContext) iRemoveKit(index int) error {
	c.cart.RemoveKitItem(index)
	return nil
}

func (c *cartTestContext) theOperationFailsWithReason(reason string) error {
	if c.err == nil {
		return fmt.Errorf("expected failure %q, got success", reason)
	}
	if got := Reason(c.err); got != reason {
		return fmt.Errorf("expected reason %q, got %q", reason, got)
	}
	return nil
}

func (c *cartTestContext) theOperationSucceeds() error {
	if c.err != nil {
		return fmt.Errorf("expected success, got %v", c.err)
	}
	return nil
}

func (c *cartTestContext) theCartHasSimpleLines(n int) error {
	if got := len(c.cart.SimpleItems); got != n {
		return fmt.Errorf("expected %d simple lines, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theCartHasKits(n int) error {
	if got := len(c.cart.KitItems); got != n {
		return fmt.Errorf("expected %d kits, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) productHasQuantity(id, qty int) error {
	line, ok := c.cart.SimpleItems[uint(id)]
	if !ok {
		return fmt.Errorf("product %d not in cart", id)
	}
	if line.Quantity != qty {
		return fmt.Errorf("expected quantity %d, got %d", qty, line.Quantity)
	}
	return nil
}

func (c *cartTestContext) productHasLineTotal(id int, total float64) error {
	line, ok := c.cart.SimpleItems[uint(id)]
	if !ok {
		return fmt.Errorf("product %d not in cart", id)
	}
	return closeTo("line total", line.Total(), total)
}

func (c *cartTestContext) kitHasTotal(index int, total float64) error {
	if index >= len(c.cart.KitItems) {
		return fmt.Errorf("no kit at %d", index)
	}
	return closeTo("kit total", c.cart.KitItems[index].Total(), total)
}

func (c *cartTestContext) theCartTotalIs(total float64) error {
	return closeTo("cart total", c.cart.Total(), total)
}

func closeTo(what string, got, want float64) error {
	if math.Abs(got-want) > 0.005 {
		return fmt.Errorf("expected %s %.2f, got %.2f", what, want, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)

	// When
	ctx.Step(`^I add product (\d+) "([^"]*)" priced ([\d.]+) with stock (-?\d+)$`, tc.iAddProduct)
	ctx.Step(`^I add a custom kit "([^"]*)" on "([^"]*)" paper with:$`, tc.iAddACustomKit)
	ctx.Step(`^I set the quantity of product (\d+) to "([^"]*)"$`, tc.iSetTheQuantity)
	ctx.Step(`^I reverse the kits$`, tc.iReverseTheKits)
	ctx.Step(`^I remove kit (-?\d+)$`, tc.iRemoveKit)

	// Then
	ctx.Step(`^the operation fails with reason "([^"]*)"$`, tc.theOperationFailsWithReason)
	ctx.Step(`^the operation succeeds$`, tc.theOperationSucceeds)
	ctx.Step(`^the cart has (\d+) simple lines?$`, tc.theCartHasSimpleLines)
	ctx.Step(`^the cart has (\d+) kits?$`, tc.theCartHasKits)
	ctx.Step(`^product (\d+) has quantity (\d+)$`, tc.productHasQuantity)
	ctx.Step(`^product (\d+) has line total ([\d.]+)$`, tc.productHasLineTotal)
	ctx.Step(`^kit (\d+) has total ([\d.]+)$`, tc.kitHasTotal)
	ctx.Step(`^the cart total is ([\d.]+)$`, tc.theCartTotalIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
