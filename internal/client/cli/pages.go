package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/studiogate/internal/authz"
	"github.com/dmitrijs2005/studiogate/internal/client/client"
)

func (a *App) Pages(ctx context.Context) error {
	pages, err := a.pages.Pages(ctx)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		printlnFn("No pages")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, p := range pages {
		fmt.Fprintf(w, "%s\t%s\n", p.ID, p.Name)
	}
	return w.Flush()
}

func (a *App) LinkedIn(ctx context.Context) error {
	pages, err := a.pages.LinkedInPages(ctx)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		printlnFn("No pages")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME")
	for _, p := range pages {
		fmt.Fprintf(w, "%s\t%s\n", authz.CompositeKey(p.AccountID, p.ID), p.Name)
	}
	return w.Flush()
}

// Publish asks for a caption, an image (URL or local file) and the target
// page ids, then prints the per-page outcome.
func (a *App) Publish(ctx context.Context) error {
	caption, err := GetMultiline(a.reader, "Enter caption", a.out)
	if err != nil {
		return err
	}

	image, err := getSimpleText(a.reader, "Image URL or local file path", a.out)
	if err != nil {
		return err
	}

	targets, err := getSimpleText(a.reader, "Page ids (comma separated)", a.out)
	if err != nil {
		return err
	}

	req := client.PublishRequest{Caption: caption, PageIDs: ParseList(targets)}
	if len(req.PageIDs) == 0 {
		return errors.New("no pages selected")
	}
	if err := authz.CheckTargets(a.session.State().Pages, req.PageIDs); err != nil {
		return err
	}

	switch {
	case image == "":
	case isURL(image):
		req.ImageURL = image
	default:
		f, err := os.Open(image)
		if err != nil {
			return err
		}
		defer f.Close()
		req.Image = f
		req.ImageName = filepath.Base(image)
	}

	results, err := a.api.Publish(ctx, req)
	if err != nil {
		return err
	}

	for _, r := range results {
		outcome := "published"
		if r.Status < http.StatusOK || r.Status >= http.StatusMultipleChoices {
			outcome = fmt.Sprintf("failed (%d)", r.Status)
		}
		printlnFn(r.PageID+":", outcome)
	}
	return nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
