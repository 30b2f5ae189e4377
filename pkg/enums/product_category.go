package enums

// ProductCategory identifies the storefront shelf a product is listed under.
type ProductCategory string

const (
	ProductCategoryOudhAttars       ProductCategory = "Oudh Attars"
	ProductCategoryFloralAttars     ProductCategory = "Floral Attars"
	ProductCategoryMuskAttars       ProductCategory = "Musk Attars"
	ProductCategoryRoseAttars       ProductCategory = "Rose Attars"
	ProductCategorySandalwoodAttars ProductCategory = "Sandalwood Attars"
	ProductCategoryBakhoor          ProductCategory = "Bakhoor"
	ProductCategoryPerfumeOils      ProductCategory = "Perfume Oils"
	ProductCategoryGiftSets         ProductCategory = "Gift Sets"
	ProductCategoryAccessories      ProductCategory = "Accessories"
)

var productCategories = map[ProductCategory]struct{}{
	ProductCategoryOudhAttars:       {},
	ProductCategoryFloralAttars:     {},
	ProductCategoryMuskAttars:       {},
	ProductCategoryRoseAttars:       {},
	ProductCategorySandalwoodAttars: {},
	ProductCategoryBakhoor:          {},
	ProductCategoryPerfumeOils:      {},
	ProductCategoryGiftSets:         {},
	ProductCategoryAccessories:      {},
}

func (c ProductCategory) IsValid() bool {
	_, ok := productCategories[c]
	return ok
}

func (c ProductCategory) String() string {
	return string(c)
}
