package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"furniture/admin/internal/domain"
	"furniture/admin/internal/domain/event"
	"furniture/admin/internal/pricing"
)

func newTable(out io.Writer, headers ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	return w
}

func row(w io.Writer, cells ...string) {
	fmt.Fprintln(w, strings.Join(cells, "\t"))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func joinOrDash(values []string) string {
	return orDash(strings.Join(values, ", "))
}

func renderDashboard(out io.Writer, stats *domain.DashboardStats) error {
	w := newTable(out, "METRIC", "COUNT")
	row(w, "Categories", fmt.Sprint(stats.Categories))
	row(w, "Subcategories", fmt.Sprint(stats.Subcategories))
	row(w, "Products", fmt.Sprint(stats.Products))
	row(w, "Users", fmt.Sprint(stats.Users))
	return w.Flush()
}

func renderCategories(out io.Writer, rows []domain.CategoryRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "No categories found")
		return err
	}
	w := newTable(out, "ID", "NAME", "SUBCATEGORIES", "COMMENT")
	for _, r := range rows {
		row(w, r.ID.String(), r.Name, fmt.Sprint(r.ChildCount), orDash(r.CommentText()))
	}
	return w.Flush()
}

func renderSubcategories(out io.Writer, rows []domain.SubcategoryRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "No subcategories found")
		return err
	}
	w := newTable(out, "ID", "NAME", "PARENT", "COMMENT")
	for _, r := range rows {
		row(w, r.ID.String(), r.Name, r.ParentName, orDash(r.CommentText()))
	}
	return w.Flush()
}

func renderTree(out io.Writer, tree []domain.CategoryNode) error {
	if len(tree) == 0 {
		_, err := fmt.Fprintln(out, "No categories found")
		return err
	}
	for _, root := range tree {
		fmt.Fprintf(out, "%s (%s)\n", root.Name, root.ID)
		for i, child := range root.Children {
			branch := "├──"
			if i == len(root.Children)-1 {
				branch = "└──"
			}
			fmt.Fprintf(out, "  %s %s (%s)\n", branch, child.Name, child.ID)
		}
	}
	return nil
}

func renderOrphans(out io.Writer, orphans []domain.Category) error {
	if len(orphans) == 0 {
		_, err := fmt.Fprintln(out, "No orphaned categories")
		return err
	}
	w := newTable(out, "ID", "NAME", "MISSING PARENT")
	for _, c := range orphans {
		row(w, c.ID.String(), c.Name, c.Parent().String())
	}
	return w.Flush()
}

func renderProducts(out io.Writer, list *domain.ProductList, tab domain.ProductTab) error {
	fmt.Fprintf(out, "All (%d)  Active (%d)  Inactive (%d)  showing: %s\n\n",
		list.Total, list.Active, list.Inactive, tab)

	if len(list.Rows) == 0 {
		_, err := fmt.Fprintln(out, "No products found")
		return err
	}

	w := newTable(out, "ID", "NAME", "BRAND", "PRICE", "DISCOUNTED", "STOCK", "STATUS", "CATEGORIES", "SUBCATEGORIES")
	for _, r := range list.Rows {
		row(w,
			r.ID.String(),
			r.Name,
			orDash(r.Brand),
			pricing.FormatINR(r.OriginalPrice.Float()),
			pricing.FormatINR(r.DiscountedPrice.Float()),
			r.StockStatus.String(),
			r.Status.Label(),
			joinOrDash(r.Categories.ParentNames),
			joinOrDash(r.Categories.SubNames),
		)
	}
	return w.Flush()
}

func renderProduct(out io.Writer, detail *domain.ProductDetail) error {
	p := detail.Product
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	row(w, "ID", p.ID.String())
	row(w, "Name", p.Name)
	row(w, "Brand", orDash(p.Brand))
	row(w, "Status", p.Status.Label())
	row(w, "Stock", p.StockStatus.String())
	row(w, "Original price", pricing.FormatINR(p.OriginalPrice.Float()))
	row(w, "Discount", fmt.Sprintf("%g%%", p.DiscountPercentage.Float()))
	row(w, "Discounted price", pricing.FormatINR(p.DiscountedPrice.Float()))
	row(w, "Categories", joinOrDash(detail.CategoryNames))
	row(w, "Material", orDash(string(p.Material)))
	row(w, "Color", orDash(string(p.Color)))
	row(w, "Seater count", orDash(string(p.SeaterCount)))
	row(w, "Warranty", orDash(string(p.WarrantyPeriod)))
	row(w, "Delivery", orDash(string(p.Delivery)))
	row(w, "Installation", orDash(string(p.Installation)))
	row(w, "Care", orDash(string(p.ProductCareInstructions)))
	row(w, "Returns", orDash(string(p.ReturnAndCancellationPolicy)))
	row(w, "Note", orDash(string(p.Note)))
	row(w, "Tax included", yesNo(p.PriceIncludesTax))
	row(w, "Shipping included", yesNo(p.ShippingIncluded))
	row(w, "Installation included", yesNo(p.InstallationIncluded))
	row(w, "Assembly required", yesNo(p.AssemblyRequired))
	row(w, "Warranty included", yesNo(p.WarrantyIncluded))
	row(w, "Cash on delivery", yesNo(p.CashOnDelivery))
	row(w, "Modifiable", yesNo(p.IsModifiable))
	for i, url := range p.ImageURLs {
		row(w, fmt.Sprintf("Image %d", i+1), url)
	}

	return w.Flush()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func renderUsers(out io.Writer, users []domain.User) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(out, "No users found")
		return err
	}
	w := newTable(out, "ID", "NAME", "PHONE", "CREATED")
	for _, u := range users {
		created := "-"
		if u.CreatedAt != nil {
			created = u.CreatedAt.Local().Format("2006-01-02")
		}
		row(w, u.ID.String(), u.Name, u.Phone, created)
	}
	return w.Flush()
}

func renderAudit(out io.Writer, records []event.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "No audit records")
		return err
	}
	w := newTable(out, "WHEN", "TYPE", "ACTION", "ENTITY", "NAME", "ACTOR")
	for _, r := range records {
		row(w,
			r.OccurredAt.Local().Format(time.DateTime),
			strings.TrimSuffix(r.EventType, "Event"),
			string(r.Action),
			r.EntityID.String(),
			orDash(r.EntityName),
			orDash(r.Actor),
		)
	}
	return w.Flush()
}
