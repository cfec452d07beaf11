package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/voatnetwork/voat/internal/client/forms"
	"github.com/voatnetwork/voat/internal/client/models"
)

func (a *App) Profile(ctx context.Context) error {
	d := a.dashboard()
	st := d.State()
	u := st.User

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Name\t%s\n", u.Name)
	fmt.Fprintf(w, "Email\t%s\n", u.Email)
	fmt.Fprintf(w, "Role\t%s\n", u.Role)
	fmt.Fprintf(w, "VOAT ID\t%s\n", u.VoatID)
	fmt.Fprintf(w, "Points\t%d\n", u.VoatPoints)
	fmt.Fprintf(w, "Badge\t%s\n", u.Badge)
	if u.Profession != "" {
		fmt.Fprintf(w, "Profession\t%s\n", u.Profession)
	}
	if u.Location != "" {
		fmt.Fprintf(w, "Location\t%s\n", u.Location)
	}
	if u.Phone != "" {
		fmt.Fprintf(w, "Phone\t%s\n", u.Phone)
	}
	if img := d.ImageURL(); img != "" {
		fmt.Fprintf(w, "Image\t%s\n", img)
	} else {
		fmt.Fprintf(w, "Initials\t%s\n", models.Initials(u.Name))
	}
	fmt.Fprintf(w, "Portfolio\t%s\n", st.PortfolioStatus)
	fmt.Fprintf(w, "Unread\t%d\n", st.Unread())
	return w.Flush()
}

// EditProfile prompts for each editable field with the current value as
// default, plus an optional image path.
func (a *App) EditProfile(ctx context.Context) error {
	d := a.dashboard()
	u := d.State().User

	var (
		f   models.ProfileForm
		err error
	)
	if f.Name, err = a.promptDefault("Full name", u.Name); err != nil {
		return err
	}
	if f.Email, err = a.promptDefault("Email", u.Email); err != nil {
		return err
	}
	role, err := a.promptDefault("Role (Freelancer/Client)", string(u.Role))
	if err != nil {
		return err
	}
	f.Role = parseRole(role)
	if f.Profession, err = a.promptDefault("Profession", u.Profession); err != nil {
		return err
	}
	if f.Phone, err = a.promptDefault("Phone", u.Phone); err != nil {
		return err
	}
	path, err := a.prompt("Profile image path (empty to keep)")
	if err != nil {
		return err
	}

	var image *models.MediaFile
	if path != "" {
		if image, err = forms.ReadMedia(path); err != nil {
			return err
		}
	}

	updated, err := d.UpdateProfile(ctx, f, image)
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		a.println("Please fix the following:")
		a.printErrors(verr.Fields)
		return nil
	}
	if err != nil {
		return err
	}
	a.printf("Profile updated: %s <%s>\n", updated.Name, updated.Email)
	return nil
}

// Refresh reloads every dashboard resource and reports wishlist drift.
func (a *App) Refresh(ctx context.Context) error {
	d := a.dashboard()
	if _, err := d.LoadUserData(ctx); err != nil {
		return err
	}
	d.FetchPortfolioStatus(ctx)
	d.RefreshOrders(ctx)
	d.RefreshBookings(ctx)

	div, err := d.CheckWishlistConsistency(ctx)
	if err == nil && !div.Consistent() {
		a.printf("Wishlist changed on the server: %d local, %d remote\n", div.LocalCount, div.ServerCount)
	}
	d.RefreshWishlist(ctx)
	a.println("Dashboard refreshed")
	return nil
}

func (a *App) Wishlist(ctx context.Context) error {
	items := a.dashboard().State().Wishlist
	if len(items) == 0 {
		a.println("Your wishlist is empty")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSERVICE\tPROVIDER\tPRICE\tRATING")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\n", it.ID, it.Service, it.Provider, it.Price, it.Rating)
	}
	return w.Flush()
}

func (a *App) RemoveWishlistItem(ctx context.Context, id string) error {
	if err := a.dashboard().RemoveWishlistItem(ctx, id); err != nil {
		return err
	}
	a.println("Item removed from your wishlist")
	return nil
}

func (a *App) Bookings(ctx context.Context, filter string) error {
	switch filter {
	case "all", string(models.BookingPending), string(models.BookingAccepted), string(models.BookingRejected):
	default:
		return fmt.Errorf("unknown filter %q", filter)
	}
	items := a.dashboard().Bookings(filter)
	if len(items) == 0 {
		a.println("No bookings")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLIENT\tSERVICE\tPRICE\tDATE\tSTATUS")
	for _, b := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", b.ID, b.ClientName, b.ServiceName, b.ServicePrice, b.RequestDate, b.Status)
	}
	return w.Flush()
}

func (a *App) DecideBooking(ctx context.Context, id string, action models.BookingAction) error {
	if err := a.dashboard().BookingAction(ctx, id, action); err != nil {
		return err
	}
	a.printf("Booking %s: %s\n", id, action)
	return nil
}

func (a *App) Orders(ctx context.Context) error {
	items := a.dashboard().State().Orders
	if len(items) == 0 {
		a.println("No orders yet")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSERVICE\tPROVIDER\tAMOUNT\tDATE\tSTATUS")
	for _, o := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", o.ID, o.Service, o.Provider, o.Amount, o.Date, o.Status)
	}
	return w.Flush()
}

func (a *App) Notifications(ctx context.Context) error {
	st := a.dashboard().State()
	if len(st.Notifications) == 0 {
		a.println("No notifications")
		return nil
	}
	a.printf("%d unread\n", st.Unread())
	for _, n := range st.Notifications {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		a.printf("%s %3d  %s  [%s] %s\n", mark, n.ID, n.At.Format("15:04:05"), n.Kind, n.Message)
	}
	return nil
}

// ReadNotification marks one notification, or all of them, as read.
func (a *App) ReadNotification(ctx context.Context, id string) error {
	d := a.dashboard()
	if strings.EqualFold(id, "all") {
		d.MarkAllNotificationsRead()
		return nil
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return fmt.Errorf("invalid notification id %q", id)
	}
	if !d.MarkNotificationRead(n) {
		return fmt.Errorf("notification %d not found", n)
	}
	return nil
}
