package preface

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleHome serves the article listing. The first request fetches page one;
// "load more" requests carry the opaque cursor from the previous page and,
// over HTMX, get just the appended list partial back.
func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	cursor := c.QueryParam("cursor")

	var (
		page Page
		err  error
	)
	if cursor != "" {
		page, err = a.Client.FetchNextPage(ctx, cursor)
	} else {
		page, err = a.Client.FetchPage(ctx, Query{
			Type:      a.Config.ContentType,
			Fields:    summaryFields,
			Orderings: listOrderings,
			PageSize:  a.Config.PageSize,
			Ref:       PreviewRef(c),
		})
	}
	if err != nil {
		if errors.Is(err, ErrInvalidCursor) {
			// Stale cursor: restart pagination from the first page.
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return err
	}

	if cursor != "" && c.Request().Header.Get("HX-Request") == "true" {
		return Render(c, a.Views.ArticleListPartial(page))
	}
	return Render(c, a.Views.Home(page))
}

// handleArticle serves a single article with its prev/next navigation.
func (a *App) handleArticle(c echo.Context) error {
	ctx := c.Request().Context()
	ref := PreviewRef(c)
	slug := c.Param("slug")

	doc, err := a.Client.GetBySlug(ctx, a.Config.ContentType, slug, ref)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	article, err := Normalize(doc)
	if err != nil {
		return err
	}

	page := ArticlePage{
		Article:  article,
		Adjacent: a.Resolver.ResolveAdjacent(ctx, a.Config.ContentType, article.FirstPublishedAt, ref),
	}
	if article.FirstPublishedAt != nil {
		page.PublishedLabel = a.Dates.Published(*article.FirstPublishedAt)
	}
	if article.LastEditedAt != nil && (article.FirstPublishedAt == nil || article.LastEditedAt.After(*article.FirstPublishedAt)) {
		page.EditedLabel = a.Dates.Edited(*article.LastEditedAt)
	}
	return Render(c, a.Views.Article(page))
}

// handlePreview resolves a CMS-issued preview token and starts a preview
// session. A token that does not resolve for the target document gets a 401
// and no session.
func (a *App) handlePreview(c echo.Context) error {
	if !a.previewLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many preview attempts. Try again later.")
	}
	token := c.QueryParam("token")
	documentID := c.QueryParam("documentId")

	target, err := a.Client.ResolvePreview(c.Request().Context(), token, documentID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid token"})
	}
	if err := SetPreviewRef(c, token); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, target)
}

// handleExitPreview drops the preview session and returns to published content.
func (a *App) handleExitPreview(c echo.Context) error {
	if err := ClearPreviewRef(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

// summaries returns the full summary walk: cached for published traffic,
// fetched live at the session ref when a preview is active.
func (a *App) summaries(c echo.Context) ([]ArticleSummary, error) {
	if ref := PreviewRef(c); ref != "" {
		return walkAll(c.Request().Context(), a.Client, a.Config.ContentType, ref)
	}
	return a.Cache.All(c.Request().Context())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound && a.Views.NotFound != nil {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		if a.Views.ServerError != nil {
			_ = RenderStatus(c, code, a.Views.ServerError())
			return
		}
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
