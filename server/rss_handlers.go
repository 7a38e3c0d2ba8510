package server

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/perspectives/pkg/domain"
)

const rssLimit = 50

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	AtomLink      atomLink  `xml:"atom:link"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	Author      string  `xml:"author,omitempty"`
	Category    string  `xml:"category"`
	GUID        rssGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate,omitempty"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// rssHandler serves visible articles of the category as RSS 2.0
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	cat, err := domain.ParseCategory(r.PathValue("category"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	recs, err := s.newest(r.Context(), []domain.Category{cat}, rssLimit)
	if err != nil {
		lgr.Printf("[ERROR] failed to get items for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	base := strings.TrimRight(s.baseURL, "/")
	feed := rssFeed{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:         "AI Perspectives - " + cat.Title(),
			Link:          base + "/",
			Description:   cat.Description(),
			AtomLink:      atomLink{Href: fmt.Sprintf("%s/rss/%s", base, cat), Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: s.now().UTC().Format(http.TimeFormat),
		},
	}
	for _, rec := range recs {
		feed.Channel.Items = append(feed.Channel.Items, rssItem{
			Title:       rec.Title,
			Link:        rec.Link,
			Description: rec.Description,
			Author:      rec.Source,
			Category:    string(cat),
			GUID:        rssGUID{Value: rec.ID},
			PubDate:     published(rec).UTC().Format(http.TimeFormat),
		})
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		lgr.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(xml.Header + string(output))); err != nil {
		lgr.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}
