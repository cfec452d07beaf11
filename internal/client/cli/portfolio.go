package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/voatnetwork/voat/internal/client/forms"
	"github.com/voatnetwork/voat/internal/client/models"
)

func (a *App) PortfolioStatus(ctx context.Context) error {
	st := a.dashboard().FetchPortfolioStatus(ctx)
	switch st {
	case models.PortfolioNone:
		a.println("No portfolio submitted yet. Use submit-portfolio to create one.")
	case models.PortfolioPending:
		a.println("Your portfolio is under review")
	case models.PortfolioApproved:
		a.println("Your portfolio is approved and visible in the catalogue")
	case models.PortfolioRejected:
		a.println("Your portfolio was rejected. You can submit a new one.")
	}
	return nil
}

// SubmitPortfolio collects the portfolio form, catalogue tags and the
// media/price grid, then submits them for review.
func (a *App) SubmitPortfolio(ctx context.Context) error {
	d := a.dashboard()
	u := d.State().User

	form, err := a.readPortfolioForm(u)
	if err != nil {
		return err
	}
	tags, err := a.readTags()
	if err != nil {
		return err
	}
	grid, err := a.readGrid(ctx)
	if err != nil {
		return err
	}

	err = d.SubmitPortfolio(ctx, form, grid.Rows(), tags.Tags())
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		a.println("Please fix the following:")
		a.printErrors(verr.Fields)
		return nil
	}
	if err != nil {
		if msg := d.State().PortfolioError; msg != "" {
			a.println(msg)
		}
		return err
	}
	a.println("Your portfolio has been submitted for review!")
	return nil
}

func (a *App) readPortfolioForm(u models.User) (models.PortfolioForm, error) {
	f := models.PortfolioForm{Pricing: models.DefaultPricingTiers()}
	fields := []struct {
		prompt string
		def    string
		dst    *string
	}{
		{"Full name", u.Name, &f.Name},
		{"Email", u.Email, &f.Email},
		{"Profession", u.Profession, &f.Profession},
		{"Headline", "", &f.Headline},
	}
	for _, fl := range fields {
		v, err := a.promptDefault(fl.prompt, fl.def)
		if err != nil {
			return f, err
		}
		*fl.dst = v
	}

	var err error
	if f.About, err = GetMultiline(a.reader, "About you", a.out); err != nil {
		return f, err
	}
	if f.WorkExperience, err = GetMultiline(a.reader, "Work experience", a.out); err != nil {
		return f, err
	}
	if f.PortfolioLink, err = a.prompt("Portfolio link (optional)"); err != nil {
		return f, err
	}
	if f.ServiceName, err = a.prompt("Service name"); err != nil {
		return f, err
	}
	if f.ServiceDescription, err = a.prompt("Service description"); err != nil {
		return f, err
	}
	for i := range f.Pricing {
		tier := &f.Pricing[i]
		if tier.Price, err = a.prompt(tier.Name + " price"); err != nil {
			return f, err
		}
		if tier.TimeFrame, err = a.prompt(tier.Name + " time frame"); err != nil {
			return f, err
		}
	}
	return f, nil
}

func (a *App) readTags() (*forms.TagInput, error) {
	tags := forms.NewTagInput(forms.DefaultMaxTags)
	for !tags.Full() {
		v, err := a.prompt(fmt.Sprintf("Catalogue tag %d/%d (empty to finish)", tags.Len()+1, forms.DefaultMaxTags))
		if err != nil {
			return nil, err
		}
		if v == "" {
			break
		}
		if err := tags.Add(v); err != nil {
			a.println("Tag not added:", err)
		}
	}
	return tags, nil
}

// readGrid fills rows of up to forms.SlotsPerRow media files plus a price.
func (a *App) readGrid(ctx context.Context) (*forms.MediaGrid, error) {
	grid := forms.NewMediaGrid(forms.DefaultMinRows, forms.DefaultMaxRows)
	for row := 0; ; row++ {
		paths, err := GetList(a.reader, fmt.Sprintf("Row %d media files, comma separated (up to %d)", row+1, forms.SlotsPerRow), a.out)
		if err != nil {
			return nil, err
		}
		if len(paths) > forms.SlotsPerRow {
			a.printf("Only the first %d files are used\n", forms.SlotsPerRow)
			paths = paths[:forms.SlotsPerRow]
		}
		files, err := forms.ReadMediaFiles(ctx, paths)
		if err != nil {
			a.println("Files not added:", err)
		}
		for slot, f := range files {
			_ = grid.SetMedia(row, slot, f)
		}
		price, err := a.prompt(fmt.Sprintf("Row %d price", row+1))
		if err != nil {
			return nil, err
		}
		_ = grid.SetPrice(row, price)

		if !grid.CanAddRow() || !yes(a.mustPrompt("Add another row? (y/n)")) {
			return grid, nil
		}
		if err := grid.AddRow(); err != nil {
			return grid, nil
		}
	}
}

func (a *App) Projects(ctx context.Context) error {
	projects := a.dashboard().State().Projects
	if len(projects) == 0 {
		a.println("No projects yet. Use add-project to create one.")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tIMAGES\tLINK")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\n", p.ID, p.Title, len(p.Images), models.MaxProjectImages, p.Link)
	}
	return w.Flush()
}

func (a *App) AddProject(ctx context.Context) error {
	title, err := a.prompt("Project title")
	if err != nil {
		return err
	}
	if title == "" {
		return errors.New("project title is required")
	}
	desc, err := a.prompt("Description")
	if err != nil {
		return err
	}
	link, err := a.prompt("Link (optional)")
	if err != nil {
		return err
	}
	p := a.dashboard().AddProject(title, desc, link)
	a.printf("Project %s added. Run save-projects to keep it.\n", p.ID)
	return nil
}

func (a *App) AddProjectImages(ctx context.Context, id string) error {
	paths, err := GetList(a.reader, fmt.Sprintf("Image files, comma separated (up to %d per project)", models.MaxProjectImages), a.out)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}
	if err := a.dashboard().AddProjectImages(ctx, id, paths); err != nil {
		return err
	}
	a.printf("%d image(s) attached\n", len(paths))
	return nil
}

func (a *App) RemoveProject(ctx context.Context, id string) error {
	if err := a.dashboard().RemoveProject(id); err != nil {
		return err
	}
	a.println("Project removed. Run save-projects to keep the change.")
	return nil
}

func (a *App) SaveProjects(ctx context.Context) error {
	if err := a.dashboard().SaveProjects(ctx); err != nil {
		return err
	}
	a.println("Projects saved")
	return nil
}
