package preface

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Author      string `xml:"author,omitempty"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

func (a *App) handleFeed(c echo.Context) error {
	items, err := a.summaries(c)
	if err != nil {
		return err
	}
	return a.renderRSS(c, items)
}

func (a *App) renderRSS(c echo.Context, summaries []ArticleSummary) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(summaries))
	for _, s := range summaries {
		pubDate := ""
		if s.FirstPublishedAt != nil {
			pubDate = s.FirstPublishedAt.Format(time.RFC1123Z)
		}
		articleURL := BuildURL(base, "blog", s.Slug)
		items = append(items, rssItem{
			Title:       s.Title,
			Link:        articleURL,
			Description: s.Subtitle,
			Author:      s.Author,
			PubDate:     pubDate,
			GUID:        articleURL,
		})
	}
	feed := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
