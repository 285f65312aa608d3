package rss

import (
	"encoding/xml"
	"fmt"
)

// Item is one entry of an RSS 2.0 channel.
type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
}

type document struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Title string `xml:"title"`
		Items []Item `xml:"item"`
	} `xml:"channel"`
}

// Parse decodes an RSS 2.0 document and returns its items.
func Parse(data []byte) ([]Item, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rss document: %w", err)
	}
	return doc.Channel.Items, nil
}

func payloadBytes(payload any) ([]byte, error) {
	switch v := payload.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case nil:
		return nil, fmt.Errorf("no rss document in payload")
	default:
		return nil, fmt.Errorf("rss payload must be a string or []byte, got %T", payload)
	}
}
