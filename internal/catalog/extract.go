package catalog

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"

	"github.com/gurlaesthetic/sourcing-cli/internal/model"
	"github.com/gurlaesthetic/sourcing-cli/internal/resilience"
)

// extraction holds the tolerant extraction strategies for one catalog.
// Catalog markup and API shapes drift without notice, so every list is
// tried in order and the first strategy yielding plausible results wins.
type extraction struct {
	// HTML strategies.
	containerSelectors []string
	titleSelectors     []string
	priceSelectors     []string
	supplierSelectors  []string
	moqSelectors       []string
	ratingSelectors    []string

	// JSON strategies: gjson paths to the product array, then per-item
	// field candidates probed in order.
	listPaths   []string
	nameFields  []string
	priceFields []string
	idFields    []string
	descFields  []string
	urlFields   []string
	imageFields []string
	// centPrices divides large integer prices by 100 (catalogs that
	// store amounts in minor units).
	centPrices bool
}

// extractHTML parses a markup payload into supplier products using the
// selector strategies. Returns a ParseError when no strategy yields a
// plausible product (non-empty name, positive price).
func (p *profile) extractHTML(body []byte, keyword string) ([]model.SupplierProduct, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &resilience.ParseError{Platform: string(p.platform), Keyword: keyword, Err: err}
	}

	var sel *goquery.Selection
	for _, s := range p.extract.containerSelectors {
		if found := doc.Find(s); found.Length() > 0 {
			sel = found
			break
		}
	}

	// Generic container fallback: anything product-ish holding an image
	// and a price marker.
	if sel == nil || sel.Length() == 0 {
		sel = doc.Find(`[data-testid*="product"], [class*="product"], [class*="goods"], [class*="item"]`).
			FilterFunction(func(_ int, s *goquery.Selection) bool {
				if s.Find("img").Length() == 0 {
					return false
				}
				text := s.Text()
				return strings.Contains(text, "$") || strings.Contains(text, "US")
			})
	}

	var products []model.SupplierProduct
	sel.EachWithBreak(func(i int, el *goquery.Selection) bool {
		if len(products) >= p.maxPerKeyword {
			return false
		}

		title, href := firstText(el, p.extract.titleSelectors)
		title = CleanText(title)
		if len(title) < 3 {
			return true
		}

		priceText, _ := firstText(el, p.extract.priceSelectors)
		price := ParsePrice(priceText)
		if price <= 0 {
			return true
		}

		img := el.Find("img").First()
		imageURL := firstAttr(img, "src", "data-src", "data-original")
		if href == "" {
			href, _ = el.Find(`a[href*="product"], a[href*="goods"], a`).First().Attr("href")
		}

		supplier, _ := firstText(el, p.extract.supplierSelectors)
		moqText, _ := firstText(el, p.extract.moqSelectors)
		ratingText, _ := firstText(el, p.extract.ratingSelectors)

		products = append(products, p.normalize(rawProduct{
			name:     title,
			keyword:  keyword,
			price:    price,
			url:      href,
			image:    imageURL,
			supplier: CleanText(supplier),
			moq:      parseMOQ(moqText),
			rating:   ParsePrice(ratingText), // ratings are "4.5" style text
		}))
		return true
	})

	if len(products) == 0 {
		return nil, &resilience.ParseError{
			Platform: string(p.platform),
			Keyword:  keyword,
			Err:      eris.New("no product containers matched any strategy"),
		}
	}
	return products, nil
}

// extractJSON probes an API-shaped payload with gjson path strategies.
func (p *profile) extractJSON(body []byte, keyword string) ([]model.SupplierProduct, error) {
	var list []gjson.Result
	for _, path := range p.extract.listPaths {
		result := gjson.GetBytes(body, path)
		if result.IsArray() {
			if arr := result.Array(); len(arr) > 0 {
				list = arr
				break
			}
		}
	}
	if list == nil {
		return nil, &resilience.ParseError{
			Platform: string(p.platform),
			Keyword:  keyword,
			Err:      eris.New("no product array at any known path"),
		}
	}

	var products []model.SupplierProduct
	for _, item := range list {
		if len(products) >= p.maxPerKeyword {
			break
		}

		name := CleanText(firstField(item, p.extract.nameFields))
		if len(name) < 3 {
			continue
		}
		price := p.jsonPrice(item)
		if price <= 0 {
			continue
		}

		products = append(products, p.normalize(rawProduct{
			name:        name,
			keyword:     keyword,
			price:       price,
			description: CleanText(firstField(item, p.extract.descFields)),
			externalID:  firstField(item, p.extract.idFields),
			url:         firstField(item, p.extract.urlFields),
			image:       firstField(item, p.extract.imageFields),
			rating:      item.Get("rating").Float(),
			moq:         int(item.Get("moq").Int()),
		}))
	}

	if len(products) == 0 {
		return nil, &resilience.ParseError{
			Platform: string(p.platform),
			Keyword:  keyword,
			Err:      eris.New("product array yielded no plausible records"),
		}
	}
	return products, nil
}

// jsonPrice probes price field candidates, handling numeric strings and
// minor-unit amounts.
func (p *profile) jsonPrice(item gjson.Result) float64 {
	for _, field := range p.extract.priceFields {
		v := item.Get(field)
		if !v.Exists() {
			continue
		}
		price := v.Float()
		if price <= 0 {
			price = ParsePrice(v.String())
		}
		if price <= 0 {
			continue
		}
		if p.extract.centPrices && price > 100 {
			price /= 100
		}
		return price
	}
	return 0
}

// firstText tries selectors in order and returns the first non-empty
// text, plus an href when the matched node is an anchor.
func firstText(el *goquery.Selection, selectors []string) (text, href string) {
	for _, s := range selectors {
		node := el.Find(s).First()
		if node.Length() == 0 {
			continue
		}
		t := strings.TrimSpace(node.Text())
		if t == "" {
			t = strings.TrimSpace(node.AttrOr("title", ""))
		}
		if t == "" {
			continue
		}
		if node.Is("a") {
			href = node.AttrOr("href", "")
		}
		return t, href
	}
	return "", ""
}

func firstAttr(el *goquery.Selection, attrs ...string) string {
	for _, a := range attrs {
		if v, ok := el.Attr(a); ok && v != "" {
			return v
		}
	}
	return ""
}

func firstField(item gjson.Result, fields []string) string {
	for _, f := range fields {
		if v := item.Get(f); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func parseMOQ(s string) int {
	v := int(ParsePrice(s))
	if v <= 0 {
		return 0
	}
	return v
}
