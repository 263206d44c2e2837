package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/maktaba/customer-core/internal/core/domain"
	"github.com/maktaba/customer-core/internal/core/ports"
)

type cli struct {
	ctx     context.Context
	session ports.SessionService
	cart    ports.CartService
	catalog ports.Transport
}

func (c *cli) run(command string, args []string) error {
	switch command {
	case "login":
		return c.login(args)
	case "register":
		return c.register(args)
	case "logout":
		c.session.Logout()
		fmt.Println("logged out")
		return nil
	case "whoami":
		return c.whoami()
	case "refresh":
		fmt.Println(c.session.Refresh(c.ctx))
		return nil
	case "cart":
		if len(args) == 0 {
			return errors.New("cart needs a subcommand")
		}
		return c.runCart(args[0], args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(os.Stderr, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (c *cli) login(args []string) error {
	fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res := c.session.Login(c.ctx, *email, *password)
	if !res.Success {
		return errors.New(res.Error)
	}
	fmt.Println("logged in as", c.session.Identity().DisplayName())
	return nil
}

func (c *cli) register(args []string) error {
	fs := pflag.NewFlagSet("register", pflag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res := c.session.Register(c.ctx, ports.RegisterInput{
		Email:    *email,
		Password: *password,
		FullName: *name,
		Phone:    *phone,
	})
	if !res.Success {
		return errors.New(res.Error)
	}
	fmt.Println("account created for", c.session.Identity().DisplayName())
	return nil
}

func (c *cli) whoami() error {
	id := c.session.Identity()
	if id == nil {
		fmt.Println("not authenticated")
		return nil
	}
	fmt.Printf("%s <%s> role=%s verified=%t\n", id.DisplayName(), id.Email, id.Role, id.Verified)
	return nil
}

func (c *cli) runCart(sub string, args []string) error {
	switch sub {
	case "add":
		return c.cartAdd(args)
	case "set":
		return c.cartSet(args)
	case "remove":
		if len(args) != 1 {
			return errors.New("cart remove takes exactly one product id")
		}
		c.cart.RemoveItem(args[0])
		return nil
	case "list":
		return c.cartList()
	case "clear":
		c.cart.Clear()
		return nil
	case "sync":
		fmt.Println(c.cart.Reconcile(c.ctx))
		return nil
	default:
		return fmt.Errorf("unknown cart subcommand %q", sub)
	}
}

// productResponse is the catalog service's product document, reduced to the
// fields a cart line needs.
type productResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Price         float64  `json:"price"`
	StockQuantity int      `json:"stock_quantity"`
	Images        []string `json:"images"`
	Vendor        *struct {
		BusinessName string `json:"business_name"`
	} `json:"vendor"`
}

func (c *cli) cartAdd(args []string) error {
	fs := pflag.NewFlagSet("cart add", pflag.ContinueOnError)
	qty := fs.Int("qty", 1, "quantity to add")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("cart add takes exactly one product id")
	}
	productID := fs.Arg(0)

	var resp productResponse
	if err := c.catalog.Get(c.ctx, "/products/"+productID, c.session.AuthHeaders(), &resp); err != nil {
		return fmt.Errorf("fetch product: %w", err)
	}

	product := domain.Product{
		ID:            resp.ID,
		Name:          resp.Title,
		Author:        resp.Author,
		Price:         resp.Price,
		Images:        resp.Images,
		StockQuantity: resp.StockQuantity,
	}
	if resp.Vendor != nil {
		product.VendorName = resp.Vendor.BusinessName
	}

	before, _ := c.cart.ItemByProduct(productID)
	c.cart.AddItem(product, *qty)
	after, ok := c.cart.ItemByProduct(productID)
	if !ok || after.Quantity == before.Quantity {
		fmt.Println("not added: quantity would exceed available stock")
		return nil
	}
	fmt.Printf("%s x%d in cart\n", after.Name, after.Quantity)
	return nil
}

func (c *cli) cartSet(args []string) error {
	fs := pflag.NewFlagSet("cart set", pflag.ContinueOnError)
	qty := fs.Int("qty", 0, "new quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("cart set takes exactly one product id")
	}
	c.cart.UpdateQuantity(fs.Arg(0), *qty)
	return nil
}

func (c *cli) cartList() error {
	lines := c.cart.Lines()
	if len(lines) == 0 {
		fmt.Println("cart is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tTITLE\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\n", l.ProductID, l.Name, l.Quantity, l.Price, l.Subtotal())
	}
	fmt.Fprintf(w, "\t\t%d\t\t%.2f\n", c.cart.ItemCount(), c.cart.TotalAmount())
	return w.Flush()
}
