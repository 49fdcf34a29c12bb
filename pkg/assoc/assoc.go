// Package assoc loads JWST level-2 association files: JSON manifests that
// group input exposures into named calibrated output products. A bare
// FITS path loads as a singleton association with one product.
package assoc

import(
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Member struct {
	Expname string `json:"expname"`
	Exptype string `json:"exptype"`
}

type Product struct {
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

type Association struct {
	AsnPool  string    `json:"asn_pool"`
	Products []Product `json:"products"`

	Filename string `json:"-"` // where it was loaded from; "singleton" for bare FITS
	Dir      string `json:"-"` // member paths resolve relative to this
}

// Much like the pipeline's own name mangling: the product name is the
// exposure basename with any stage suffix stripped.
var stageSuffixes = []string{"_rateints", "_rate", "_uncal", "_calints", "_cal"}

func ProductName(fitsfile string) string {
	name := strings.TrimSuffix(filepath.Base(fitsfile), ".fits")
	for _, suf := range stageSuffixes {
		if strings.HasSuffix(name, suf) {
			return strings.TrimSuffix(name, suf)
		}
	}
	return name
}

// Load reads an association file, or wraps a single exposure path into a
// one-product association.
func Load(path string) (*Association, error) {
	if strings.ToLower(filepath.Ext(path)) != ".json" {
		return &Association{
			AsnPool:  "singleton",
			Filename: "singleton",
			Dir:      filepath.Dir(path),
			Products: []Product{{
				Name:    ProductName(path),
				Members: []Member{{Expname: filepath.Base(path), Exptype: "science"}},
			}},
		}, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asn read %s: %v", path, err)
	}
	asn := Association{}
	if err := json.Unmarshal(b, &asn); err != nil {
		return nil, fmt.Errorf("asn parse %s: %v", path, err)
	}
	if len(asn.Products) == 0 {
		return nil, fmt.Errorf("asn %s: no products", path)
	}
	asn.Filename = path
	asn.Dir = filepath.Dir(path)
	return &asn, nil
}

// ScienceMember returns the first science member of a product, or an
// error naming the product when there is none.
func (p Product)ScienceMember() (Member, error) {
	for _, m := range p.Members {
		if m.Exptype == "science" || m.Exptype == "" {
			return m, nil
		}
	}
	return Member{}, fmt.Errorf("asn product %s: no science member", p.Name)
}

// Resolve maps a member's expname to a real path.
func (a *Association)Resolve(m Member) string {
	if filepath.IsAbs(m.Expname) {
		return m.Expname
	}
	return filepath.Join(a.Dir, m.Expname)
}
