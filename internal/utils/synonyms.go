package utils

import "strings"

// garmentAliases maps spelling variants to one canonical garment word
var garmentAliases = map[string]string{
	"sari":       "saree",
	"saris":      "saree",
	"sarees":     "saree",
	"tee":        "tshirt",
	"tees":       "tshirt",
	"tshirts":    "tshirt",
	"trainer":    "sneaker",
	"trainers":   "sneaker",
	"sneakers":   "sneaker",
	"kurtas":     "kurta",
	"kurtis":     "kurti",
	"lehengas":   "lehenga",
	"lehnga":     "lehenga",
	"dresses":    "dress",
	"shirts":     "shirt",
	"jewelry":    "jewellery",
	"pants":      "trousers",
	"trouser":    "trousers",
	"heels":      "heel",
	"sandals":    "sandal",
	"shoes":      "shoe",
	"boots":      "boot",
	"loafers":    "loafer",
	"juttis":     "jutti",
	"earrings":   "earring",
	"sunglass":   "sunglasses",
	"handbags":   "handbag",
	"bags":       "bag",
	"watches":    "watch",
	"gowns":      "gown",
	"skirts":     "skirt",
	"tops":       "top",
	"blouses":    "blouse",
	"jackets":    "jacket",
	"blazers":    "blazer",
	"suits":      "suit",
	"sherwanis":  "sherwani",
	"dupattas":   "dupatta",
	"anarkalis":  "anarkali",
	"waistcoats": "waistcoat",
}

// CanonicalGarment returns the canonical spelling of a single lower-case word
func CanonicalGarment(word string) string {
	if canon, ok := garmentAliases[strings.ToLower(word)]; ok {
		return canon
	}
	return word
}

// SameGarment reports whether two product names normalize to the same key
func SameGarment(a, b string) bool {
	return NormalizeKey(a) == NormalizeKey(b)
}
