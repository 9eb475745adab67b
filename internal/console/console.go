// Package console is an interactive store manager driven over a line-oriented
// reader and writer, sharing the use cases the HTTP server runs on.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Services struct {
	Categories usecase.CategoryUseCase
	Products   usecase.ProductUseCase
	Orders     usecase.OrderUseCase
	OrderItems usecase.OrderItemUseCase
	Analytics  usecase.AnalyticsUseCase
}

type Console struct {
	svc     Services
	in      *bufio.Scanner
	out     io.Writer
	log     *logrus.Logger
	printer *message.Printer
}

var errInvalidNumber = errors.New("invalid input (please enter numbers for price/stock/ID)")

func New(svc Services, in io.Reader, out io.Writer, logger *logrus.Logger) *Console {
	return &Console{
		svc:     svc,
		in:      bufio.NewScanner(in),
		out:     out,
		log:     logger,
		printer: message.NewPrinter(language.English),
	}
}

type menuEntry struct {
	label  string
	action func(*Console, context.Context) error
}

var menu = []menuEntry{
	{"List Products", (*Console).listProducts},
	{"List Categories", (*Console).listCategories},
	{"Add Product", (*Console).addProduct},
	{"Add Category", (*Console).addCategory},
	{"View Store Analytics", (*Console).showAnalytics},
	{"Create Order", (*Console).createOrder},
	{"Add Item to Order", (*Console).addOrderItem},
}

// Run loops until the exit choice or end of input. Failed actions are
// reported and the menu is shown again.
func (c *Console) Run(ctx context.Context) error {
	exitChoice := strconv.Itoa(len(menu) + 1)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.header("Store Manager")
		for i, entry := range menu {
			fmt.Fprintf(c.out, "%d. %s\n", i+1, entry.label)
		}
		fmt.Fprintf(c.out, "%s. Exit\n", exitChoice)

		choice, err := c.prompt(fmt.Sprintf("\nEnter choice (1-%s): ", exitChoice))
		if errors.Is(err, io.EOF) || choice == exitChoice {
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}

		n, convErr := strconv.Atoi(choice)
		if convErr != nil || n < 1 || n > len(menu) {
			fmt.Fprintln(c.out, "Invalid choice, try again.")
			continue
		}

		err = menu[n-1].action(c, ctx)
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		case err != nil:
			c.log.Debugf("Console: %s failed: %v", menu[n-1].label, err)
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
	}
}

func (c *Console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) promptInt(label string) (int, error) {
	s, err := c.prompt(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errInvalidNumber
	}
	return n, nil
}

func (c *Console) header(title string) {
	fmt.Fprintf(c.out, "\n%s\n   %s\n%s\n", strings.Repeat("=", 50), strings.ToUpper(title), strings.Repeat("=", 50))
}

// money renders amounts as "KSh 1,234.50", exactly, from the decimal digits.
func (c *Console) money(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, cents, _ := strings.Cut(fixed, ".")
	return "KSh " + sign + groupThousands(whole) + "." + cents
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func (c *Console) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
}

func (c *Console) listProducts(ctx context.Context) error {
	products, err := c.svc.Products.ListProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(c.out, "No products found.")
		return nil
	}
	w := c.table()
	fmt.Fprintln(w, "ID\tName\tPrice\tStock")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.ID, p.Name, c.money(p.Price), p.Stock)
	}
	return w.Flush()
}

func (c *Console) listCategories(ctx context.Context) error {
	categories, err := c.svc.Categories.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Fprintln(c.out, "No categories found.")
		return nil
	}
	w := c.table()
	fmt.Fprintln(w, "ID\tName")
	for _, cat := range categories {
		fmt.Fprintf(w, "%d\t%s\n", cat.ID, cat.Name)
	}
	return w.Flush()
}

func (c *Console) addProduct(ctx context.Context) error {
	c.header("Add New Product")
	if err := c.listCategories(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "\n--- Enter Product Details ---")

	name, err := c.prompt("Name: ")
	if err != nil {
		return err
	}
	priceStr, err := c.prompt("Price: ")
	if err != nil {
		return err
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return errInvalidNumber
	}
	categoryID, err := c.promptInt("Category ID: ")
	if err != nil {
		return err
	}
	stock, err := c.promptInt("Stock: ")
	if err != nil {
		return err
	}
	description, err := c.prompt("Description (optional): ")
	if err != nil {
		return err
	}

	product := &domain.Product{
		Name:       name,
		Price:      price,
		Stock:      stock,
		CategoryID: categoryID,
	}
	if description != "" {
		product.Description = &description
	}
	created, err := c.svc.Products.CreateProduct(ctx, product)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Success! Product '%s' added with ID %d.\n", created.Name, created.ID)
	return nil
}

func (c *Console) addCategory(ctx context.Context) error {
	c.header("Add New Category")
	name, err := c.prompt("Category Name: ")
	if err != nil {
		return err
	}
	description, err := c.prompt("Description: ")
	if err != nil {
		return err
	}

	category := &domain.Category{Name: name}
	if description != "" {
		category.Description = &description
	}
	created, err := c.svc.Categories.CreateCategory(ctx, category)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Success! Category '%s' created with ID %d.\n", created.Name, created.ID)
	return nil
}

func (c *Console) showAnalytics(ctx context.Context) error {
	c.header("Store Analytics")
	summary, err := c.svc.Analytics.Summary(ctx)
	if err != nil {
		return err
	}

	c.printer.Fprintf(c.out, "Total Products: %d\n", summary.ProductCount)
	fmt.Fprintf(c.out, "Inventory Value: %s\n", c.money(summary.InventoryValue))
	if len(summary.LowStock) == 0 {
		fmt.Fprintln(c.out, "\nAll stock levels are healthy.")
		return nil
	}
	fmt.Fprintf(c.out, "\n[!] Low Stock Warning (Less than %d items):\n", domain.LowStockThreshold)
	for _, p := range summary.LowStock {
		c.printer.Fprintf(c.out, "- %s (%d left)\n", p.Name, p.Stock)
	}
	return nil
}

func (c *Console) createOrder(ctx context.Context) error {
	c.header("Create Order")
	customer, err := c.prompt("Customer Name: ")
	if err != nil {
		return err
	}
	order, err := c.svc.Orders.CreateOrder(ctx, &domain.Order{CustomerName: customer})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Success! Order #%d created for %s.\n", order.ID, order.CustomerName)
	return nil
}

func (c *Console) addOrderItem(ctx context.Context) error {
	c.header("Add Item to Order")
	orderID, err := c.promptInt("Order ID: ")
	if err != nil {
		return err
	}
	if err := c.listProducts(ctx); err != nil {
		return err
	}
	productID, err := c.promptInt("Product ID: ")
	if err != nil {
		return err
	}
	quantity, err := c.promptInt("Quantity: ")
	if err != nil {
		return err
	}

	item, err := c.svc.OrderItems.CreateOrderItem(ctx, orderID, productID, quantity)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Success! Added %d x product %d to order #%d at %s each.\n",
		item.Quantity, item.ProductID, item.OrderID, c.money(item.PriceAtPurchase))
	return nil
}
