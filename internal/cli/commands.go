package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"furniture/admin/internal/client"
	"furniture/admin/internal/domain"
	"furniture/admin/internal/service"
	"furniture/admin/internal/session"

	"github.com/spf13/pflag"
)

func (a *App) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	phone := fs.String("phone", a.creds.Phone, "phone number")
	password := fs.String("password", a.creds.Password, "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	creds := session.Credentials{}
	if creds.Phone, err = a.prompt("Phone", *phone); err != nil {
		return err
	}
	if creds.Password, err = a.prompt("Password", *password); err != nil {
		return err
	}

	sess, err := a.svc.Login(ctx, creds)
	if err != nil {
		if client.IsUnauthorized(err) {
			return errors.New("invalid phone or password")
		}
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", sess.User.Name)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.svc.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) whoami(ctx context.Context, _ []string) error {
	sess, err := a.svc.WhoAmI(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s (%s), logged in at %s\n",
		sess.User.Name, sess.User.Phone, sess.CreatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func (a *App) dashboard(ctx context.Context, _ []string) error {
	stats, err := a.svc.Dashboard(ctx)
	if err != nil {
		return err
	}
	return renderDashboard(a.out, stats)
}

func (a *App) tree(ctx context.Context, args []string) error {
	fs := newFlagSet("tree")
	sortByName := fs.Bool("sort", false, "order categories by name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tree, err := a.svc.Tree(ctx, *sortByName)
	if err != nil {
		return err
	}
	return renderTree(a.out, tree)
}

func (a *App) orphans(ctx context.Context, _ []string) error {
	orphans, err := a.svc.Orphans(ctx)
	if err != nil {
		return err
	}
	return renderOrphans(a.out, orphans)
}

func (a *App) categories(ctx context.Context, args []string) error {
	action, rest := subcommand(args)

	fs := newFlagSet("categories " + action)
	name := fs.String("name", "", "category name")
	comment := fs.String("comment", "", "optional comment")
	cascade := fs.Bool("cascade", false, "also delete subcategories without asking")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	switch action {
	case "list":
		rows, err := a.svc.CategoryRows(ctx)
		if err != nil {
			return err
		}
		return renderCategories(a.out, rows)

	case "create":
		created, err := a.svc.CreateCategory(ctx, *name, *comment)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Category created successfully (%s)\n", created.ID)
		return nil

	case "update":
		id, err := requireArg(fs, "category id")
		if err != nil {
			return err
		}
		if _, err := a.svc.UpdateCategory(ctx, domain.ID(id), *name, *comment); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Category updated successfully")
		return nil

	case "delete":
		return a.deleteCategory(ctx, fs, *cascade, "Category")

	default:
		return fmt.Errorf("unknown categories action %q", action)
	}
}

func (a *App) subcategories(ctx context.Context, args []string) error {
	action, rest := subcommand(args)

	fs := newFlagSet("subcategories " + action)
	name := fs.String("name", "", "subcategory name")
	comment := fs.String("comment", "", "optional comment")
	parent := fs.String("parent", "", "id of the parent category")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	switch action {
	case "list":
		rows, err := a.svc.SubcategoryRows(ctx)
		if err != nil {
			return err
		}
		return renderSubcategories(a.out, rows)

	case "create":
		created, err := a.svc.CreateSubcategory(ctx, domain.ID(*parent), *name, *comment)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Subcategory created successfully (%s)\n", created.ID)
		return nil

	case "update":
		id, err := requireArg(fs, "subcategory id")
		if err != nil {
			return err
		}
		if _, err := a.svc.UpdateSubcategory(ctx, domain.ID(id), domain.ID(*parent), *name, *comment); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Subcategory updated successfully")
		return nil

	case "delete":
		return a.deleteCategory(ctx, fs, false, "Subcategory")

	default:
		return fmt.Errorf("unknown subcategories action %q", action)
	}
}

func (a *App) deleteCategory(ctx context.Context, fs *pflag.FlagSet, cascade bool, label string) error {
	id, err := requireArg(fs, strings.ToLower(label)+" id")
	if err != nil {
		return err
	}

	err = a.svc.DeleteCategory(ctx, domain.ID(id), cascade)
	if errors.Is(err, service.ErrCascadeNotConfirmed) {
		if !a.confirm(err.Error() + ". Delete them all?") {
			fmt.Fprintln(a.out, "Nothing deleted")
			return nil
		}
		err = a.svc.DeleteCategory(ctx, domain.ID(id), true)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s deleted successfully\n", label)
	return nil
}

func (a *App) products(ctx context.Context, args []string) error {
	action, rest := subcommand(args)

	switch action {
	case "list":
		fs := newFlagSet("products list")
		tab := fs.String("tab", string(domain.ProductTabAll), "all, active or inactive")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		selected := domain.ProductTab(*tab)
		switch selected {
		case domain.ProductTabAll, domain.ProductTabActive, domain.ProductTabInactive:
		default:
			return fmt.Errorf("unknown tab %q", *tab)
		}

		list, err := a.svc.Products(ctx, selected)
		if err != nil {
			return err
		}
		return renderProducts(a.out, list, selected)

	case "show", "status", "delete":
		fs := newFlagSet("products " + action)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := requireArg(fs, "product id")
		if err != nil {
			return err
		}
		return a.productAction(ctx, action, domain.ID(id))

	case "create":
		return a.saveProduct(ctx, "", rest)

	case "update":
		if len(rest) == 0 || strings.HasPrefix(rest[0], "-") {
			return errors.New("product id is required")
		}
		return a.saveProduct(ctx, domain.ID(rest[0]), rest[1:])

	default:
		return fmt.Errorf("unknown products action %q", action)
	}
}

func (a *App) productAction(ctx context.Context, action string, id domain.ID) error {
	switch action {
	case "show":
		detail, err := a.svc.ProductDetail(ctx, id)
		if err != nil {
			return err
		}
		return renderProduct(a.out, detail)

	case "status":
		status, err := a.svc.ToggleStatus(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Product status updated to %s\n", status)
		return nil

	default:
		if !a.confirm("Are you sure you want to delete this product?") {
			fmt.Fprintln(a.out, "Nothing deleted")
			return nil
		}
		if err := a.svc.DeleteProduct(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Product deleted successfully")
		return nil
	}
}

// saveProduct creates a product when id is empty, otherwise edits it. On edit
// only the flags given change the stored values.
func (a *App) saveProduct(ctx context.Context, id domain.ID, args []string) error {
	isNew := id.IsZero()

	form := service.NewProductForm()
	if !isNew {
		var err error
		if form, err = a.svc.EditForm(ctx, id); err != nil {
			return err
		}
	}

	fs := newFlagSet("products save")
	bindProductForm(fs, form)
	categories := fs.StringSlice("category", nil, "toggle a category id in the selection (repeatable)")
	images := fs.StringSlice("image", nil, "image file to upload (repeatable)")
	removeImages := fs.StringSlice("remove-image", nil, "existing image URL to drop (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ids := make([]domain.ID, 0, len(*categories))
	for _, c := range *categories {
		ids = append(ids, domain.ID(strings.TrimSpace(c)))
	}
	if err := a.svc.SelectCategories(ctx, form, ids); err != nil {
		return err
	}

	if len(*removeImages) > 0 {
		form.ExistingImageURLs = without(form.ExistingImageURLs, *removeImages)
	}

	for _, path := range *images {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read image %s: %w", path, err)
		}
		form.Images = append(form.Images, client.Image{FileName: filepath.Base(path), Data: data})
	}

	if isNew {
		created, err := a.svc.CreateProduct(ctx, form)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Product created successfully (%s)\n", created.ID)
		return nil
	}

	if _, err := a.svc.UpdateProduct(ctx, id, form); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Product updated successfully")
	return nil
}

// bindProductForm points the product flags at the form, so values loaded for
// an edit stay unless overridden
func bindProductForm(fs *pflag.FlagSet, f *service.ProductForm) {
	fs.StringVar(&f.Name, "name", f.Name, "product name")
	fs.StringVar(&f.Brand, "brand", f.Brand, "brand")
	fs.Float64Var(&f.OriginalPrice, "price", f.OriginalPrice, "original price")
	fs.Float64Var(&f.DiscountPercentage, "discount", f.DiscountPercentage, "discount percentage")
	fs.Float64Var(&f.DiscountedPrice, "discounted-price", f.DiscountedPrice, "discounted price, computed from price and discount when both are set")
	fs.Var(newStockValue(&f.StockStatus), "stock", "In Stock, Low Stock or Out of Stock")
	fs.Var(newStatusValue(&f.Status), "status", "active or inactive")
	fs.StringVar(&f.Note, "note", f.Note, "note")
	fs.StringVar(&f.Material, "material", f.Material, "material")
	fs.StringVar(&f.Color, "color", f.Color, "color")
	fs.StringVar(&f.SeaterCount, "seater-count", f.SeaterCount, "seater count")
	fs.StringVar(&f.WarrantyPeriod, "warranty-period", f.WarrantyPeriod, "warranty period")
	fs.StringVar(&f.Delivery, "delivery", f.Delivery, "delivery information")
	fs.StringVar(&f.Installation, "installation", f.Installation, "installation information")
	fs.StringVar(&f.ProductCareInstructions, "care", f.ProductCareInstructions, "product care instructions")
	fs.StringVar(&f.ReturnAndCancellationPolicy, "return-policy", f.ReturnAndCancellationPolicy, "return and cancellation policy")
	fs.BoolVar(&f.PriceIncludesTax, "price-includes-tax", f.PriceIncludesTax, "price includes tax")
	fs.BoolVar(&f.ShippingIncluded, "shipping-included", f.ShippingIncluded, "shipping included")
	fs.BoolVar(&f.InstallationIncluded, "installation-included", f.InstallationIncluded, "installation included")
	fs.BoolVar(&f.AssemblyRequired, "assembly-required", f.AssemblyRequired, "assembly required")
	fs.BoolVar(&f.WarrantyIncluded, "warranty-included", f.WarrantyIncluded, "warranty included")
	fs.BoolVar(&f.CashOnDelivery, "cash-on-delivery", f.CashOnDelivery, "cash on delivery available")
	fs.BoolVar(&f.IsModifiable, "modifiable", f.IsModifiable, "customer may request modifications")
}

func without(values, drop []string) []string {
	dropped := make(map[string]struct{}, len(drop))
	for _, d := range drop {
		dropped[strings.TrimSpace(d)] = struct{}{}
	}
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := dropped[v]; !ok {
			kept = append(kept, v)
		}
	}
	return kept
}

func (a *App) users(ctx context.Context, args []string) error {
	action, rest := subcommand(args)

	fs := newFlagSet("users " + action)
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number")
	password := fs.String("password", "", "password, on create only")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	switch action {
	case "list":
		users, err := a.svc.Users(ctx)
		if err != nil {
			return err
		}
		return renderUsers(a.out, users)

	case "create":
		created, err := a.svc.CreateUser(ctx, domain.UserInput{Name: *name, Phone: *phone, Password: *password})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "User created successfully (%s)\n", created.ID)
		return nil

	case "update":
		id, err := requireArg(fs, "user id")
		if err != nil {
			return err
		}
		if _, err := a.svc.UpdateUser(ctx, domain.ID(id), domain.UserInput{Name: *name, Phone: *phone}); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "User updated successfully")
		return nil

	case "delete":
		id, err := requireArg(fs, "user id")
		if err != nil {
			return err
		}
		if !a.confirm("Are you sure you want to delete this user?") {
			fmt.Fprintln(a.out, "Nothing deleted")
			return nil
		}
		if err := a.svc.DeleteUser(ctx, domain.ID(id)); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "User deleted successfully")
		return nil

	default:
		return fmt.Errorf("unknown users action %q", action)
	}
}

func (a *App) auditCmd(ctx context.Context, args []string) error {
	action, rest := subcommand(args)
	if action == "list" {
		action = "recent"
	}

	fs := newFlagSet("audit " + action)
	limit := fs.Int("limit", 20, "number of records to show")
	workers := fs.Int("workers", a.workers, "workers per stream")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	if a.audit == nil {
		return errors.New("audit is disabled in the configuration")
	}
	worker, err := a.audit(ctx)
	if err != nil {
		return err
	}

	switch action {
	case "recent":
		records, err := worker.Recent(ctx, *limit)
		if err != nil {
			return err
		}
		return renderAudit(a.out, records)

	case "run":
		return worker.Run(ctx, *workers)

	default:
		return fmt.Errorf("unknown audit action %q", action)
	}
}
