package bing

import (
	"fmt"
	"time"
)

// archiveDateLayout is the date format used by the archive API (20060102).
const archiveDateLayout = "20060102"

// Image is one entry from the HPImageArchive endpoint.
type Image struct {
	StartDate     string `json:"startdate"`
	FullStartDate string `json:"fullstartdate"`
	EndDate       string `json:"enddate"`
	URL           string `json:"url"`
	URLBase       string `json:"urlbase"`
	Copyright     string `json:"copyright"`
	CopyrightLink string `json:"copyrightlink"`
	Title         string `json:"title"`
	Quiz          string `json:"quiz"`
	Hash          string `json:"hsh"`
}

// archiveResponse is the top-level HPImageArchive JSON document.
type archiveResponse struct {
	Images []Image `json:"images"`
}

// Date parses the image's start date.
func (img *Image) Date() (time.Time, error) {
	t, err := time.Parse(archiveDateLayout, img.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid archive date %q: %w", img.StartDate, err)
	}
	return t, nil
}

// DateString returns the image date in YYYY-MM-DD form, used for local
// file names. Falls back to the raw startdate when it cannot be parsed.
func (img *Image) DateString() string {
	t, err := img.Date()
	if err != nil {
		return img.StartDate
	}
	return t.Format("2006-01-02")
}

// ImageURL builds the download URL for the requested resolution.
//
// The archive's urlbase field is the resolution-independent stem; appending
// "_UHD.jpg" or "_<WxH>.jpg" selects the variant. When urlbase is missing
// the literal url field (a full 1920x1080 link) is used as-is.
func (img *Image) ImageURL(baseURL, resolution string) string {
	if img.URLBase == "" {
		return baseURL + img.URL
	}
	return fmt.Sprintf("%s%s_%s.jpg", baseURL, img.URLBase, resolution)
}
