package assistant

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/user/shopfront/internal/types"
)

// Query is what the shopper submitted: free text and an optional photo.
type Query struct {
	ID        types.SubmissionID
	Text      string
	Image     []byte
	ImageType string
}

// NewQuery builds a Query, sniffing the image's content type.
func NewQuery(text string, image []byte) Query {
	q := Query{Text: text}
	if len(image) > 0 {
		q.Image = image
		q.ImageType = mimetype.Detect(image).String()
	}
	return q
}

func (q Query) HasImage() bool {
	return len(q.Image) > 0
}

// IsImage reports whether the attached payload sniffs as an image.
func (q Query) IsImage() bool {
	return q.HasImage() && strings.HasPrefix(q.ImageType, "image/")
}

// Preview returns the attachment as a data URL, or "" when there is none.
func (q Query) Preview() string {
	if !q.HasImage() {
		return ""
	}
	return "data:" + q.ImageType + ";base64," + base64.StdEncoding.EncodeToString(q.Image)
}

func (q Query) View() types.QueryView {
	return types.QueryView{
		ID:        q.ID,
		Text:      q.Text,
		HasImage:  q.HasImage(),
		ImageType: q.ImageType,
	}
}
