// Package captcha issues digit challenges rendered as PNG images.
package captcha

import (
	"io"
	"strings"

	"github.com/dchest/captcha"
	"github.com/google/uuid"
)

const (
	Width  = captcha.StdWidth
	Height = captcha.StdHeight
)

// Challenge is a freshly generated captcha. Answer is what the user must type.
type Challenge struct {
	Answer string
	id     string
	digits []byte
}

// WriteTo renders the challenge as a PNG image.
func (c *Challenge) WriteTo(w io.Writer) (int64, error) {
	return captcha.NewImage(c.id, c.digits, Width, Height).WriteTo(w)
}

type Generator struct {
	length int
}

func NewGenerator(length int) *Generator {
	return &Generator{length: length}
}

func (g *Generator) New() *Challenge {
	digits := captcha.RandomDigits(g.length)

	var b strings.Builder
	b.Grow(len(digits))
	for _, d := range digits {
		b.WriteByte('0' + d)
	}
	// the id seeds the image noise, so it must not be derived from the answer
	return &Challenge{Answer: b.String(), id: uuid.NewString(), digits: digits}
}
