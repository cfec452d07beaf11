package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/voatnetwork/voat/internal/client/forms"
	"github.com/voatnetwork/voat/internal/client/models"
)

func (d *Dashboard) loadProjects(ctx context.Context) {
	uid, err := d.userID()
	if err != nil {
		return
	}
	p, err := d.store.Projects(ctx, uid)
	if err != nil {
		d.log.Warn(ctx, "read saved projects", "error", err)
		return
	}
	d.mu.Lock()
	d.projects = p
	d.mu.Unlock()
}

// AddProject creates an unsaved project. Call SaveProjects to persist.
func (d *Dashboard) AddProject(title, description, link string) models.Project {
	p := models.Project{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Link:        strings.TrimSpace(link),
		Images:      []*models.MediaFile{},
		CreatedAt:   d.now(),
	}
	d.mu.Lock()
	d.projects = append(d.projects, p)
	d.mu.Unlock()
	return p
}

func (d *Dashboard) UpdateProject(id, title, description, link string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.projectIndexLocked(id)
	if i < 0 {
		return ErrProjectNotFound
	}
	d.projects[i].Title = strings.TrimSpace(title)
	d.projects[i].Description = strings.TrimSpace(description)
	d.projects[i].Link = strings.TrimSpace(link)
	return nil
}

func (d *Dashboard) RemoveProject(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.projectIndexLocked(id)
	if i < 0 {
		return ErrProjectNotFound
	}
	d.projects = append(d.projects[:i:i], d.projects[i+1:]...)
	return nil
}

// AddProjectImages reads the files concurrently and attaches them all, or
// none if any read fails or the project would exceed its image limit.
func (d *Dashboard) AddProjectImages(ctx context.Context, id string, paths []string) error {
	d.mu.Lock()
	i := d.projectIndexLocked(id)
	if i < 0 {
		d.mu.Unlock()
		return ErrProjectNotFound
	}
	free := d.projects[i].ImageSlots()
	d.mu.Unlock()
	if len(paths) > free {
		return fmt.Errorf("%w: %d free of %d", ErrTooManyImages, free, models.MaxProjectImages)
	}

	files, err := forms.ReadMediaFiles(ctx, paths)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	i = d.projectIndexLocked(id)
	if i < 0 {
		return ErrProjectNotFound
	}
	if len(files) > d.projects[i].ImageSlots() {
		return ErrTooManyImages
	}
	d.projects[i].Images = append(d.projects[i].Images, files...)
	return nil
}

func (d *Dashboard) RemoveProjectImage(id string, index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.projectIndexLocked(id)
	if i < 0 {
		return ErrProjectNotFound
	}
	imgs := d.projects[i].Images
	if index < 0 || index >= len(imgs) {
		return forms.ErrOutOfRange
	}
	d.projects[i].Images = append(imgs[:index:index], imgs[index+1:]...)
	return nil
}

// SaveProjects persists the project list under the account's key.
func (d *Dashboard) SaveProjects(ctx context.Context) error {
	uid, err := d.userID()
	if err != nil {
		d.notify(NotifyError, MsgProjectsLoggedIn)
		return err
	}
	d.mu.Lock()
	p := cloneProjects(d.projects)
	d.mu.Unlock()

	if err := d.store.SaveProjects(ctx, uid, p); err != nil {
		d.notify(NotifyError, MsgProjectsFailed)
		return fmt.Errorf("save projects: %w", err)
	}
	d.notify(NotifySuccess, "Projects saved successfully! Your portfolio has been updated.")
	return nil
}

func (d *Dashboard) projectIndexLocked(id string) int {
	for i, p := range d.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}
