package jfits

import(
	"fmt"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"
)

// A Header is an ordered list of FITS cards, as copied out of (or destined
// for) one HDU. The structural cards (SIMPLE, BITPIX, NAXISn, ...) are
// never carried here; fitsio owns those.
type Header []fitsio.Card

var structuralKeys = map[string]bool{
	"SIMPLE": true, "XTENSION": true, "BITPIX": true, "NAXIS": true,
	"NAXIS1": true, "NAXIS2": true, "NAXIS3": true, "NAXIS4": true,
	"EXTEND": true, "PCOUNT": true, "GCOUNT": true, "END": true,
}

func copyHeader(hdr *fitsio.Header) Header {
	out := Header{}
	for _, key := range hdr.Keys() {
		if structuralKeys[key] {
			continue
		}
		card := hdr.Get(key)
		if card == nil {
			continue
		}
		out = append(out, fitsio.Card{Name: card.Name, Value: card.Value, Comment: card.Comment})
	}
	return out
}

func (h Header)Get(key string) (interface{}, bool) {
	for i := range h {
		if h[i].Name == key {
			return h[i].Value, true
		}
	}
	return nil, false
}

// Set overwrites the card if present, else appends it.
func (h *Header)Set(key string, val interface{}, comment string) {
	for i := range *h {
		if (*h)[i].Name == key {
			(*h)[i].Value = val
			(*h)[i].Comment = comment
			return
		}
	}
	*h = append(*h, fitsio.Card{Name: key, Value: val, Comment: comment})
}

func (h Header)Str(key string) string {
	v, ok := h.Get(key)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func (h Header)Int(key string) (int, bool) {
	v, ok := h.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		return i, err == nil
	}
	return 0, false
}

func (h Header)Float(key string) (float64, bool) {
	v, ok := h.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func (h Header)Bool(key string) bool {
	v, ok := h.Get(key)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.TrimSpace(t) == "T" || strings.TrimSpace(t) == "True"
	}
	return false
}
