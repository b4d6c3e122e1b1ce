package orders

import (
	"fmt"
	"time"

	"github.com/speps/go-hashids/v2"
)

const orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NumberGenerator turns a database sequence value into an opaque order
// number of the form ORD-YYMMDD-XXXXXX.
type NumberGenerator struct {
	h   *hashids.HashID
	loc *time.Location
}

func NewNumberGenerator(salt string) (*NumberGenerator, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 6
	hd.Alphabet = orderNumberAlphabet

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("order number hashids: %w", err)
	}

	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		loc = time.FixedZone("ICT", 7*60*60)
	}
	return &NumberGenerator{h: h, loc: loc}, nil
}

func (g *NumberGenerator) Generate(seq int64, at time.Time) (string, error) {
	tag, err := g.h.EncodeInt64([]int64{seq})
	if err != nil {
		return "", fmt.Errorf("encode order number: %w", err)
	}
	return fmt.Sprintf("ORD-%s-%s", at.In(g.loc).Format("060102"), tag), nil
}

// Sequence recovers the sequence value from an order number.
func (g *NumberGenerator) Sequence(number string) (int64, error) {
	var date, tag string
	if _, err := fmt.Sscanf(number, "ORD-%6s-%s", &date, &tag); err != nil {
		return 0, fmt.Errorf("malformed order number %q", number)
	}
	ids, err := g.h.DecodeInt64WithError(tag)
	if err != nil || len(ids) != 1 {
		return 0, fmt.Errorf("malformed order number %q", number)
	}
	return ids[0], nil
}
