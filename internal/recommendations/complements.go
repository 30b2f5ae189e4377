package recommendations

import "github.com/zaidansari/attarmart-backend/pkg/enums"

// complementsByCategory maps each category to the categories shoppers buy
// alongside it. Static merchandising configuration, not learned.
var complementsByCategory = map[enums.ProductCategory][]enums.ProductCategory{
	enums.ProductCategoryOudhAttars:       {enums.ProductCategoryBakhoor, enums.ProductCategoryMuskAttars, enums.ProductCategoryGiftSets},
	enums.ProductCategoryFloralAttars:     {enums.ProductCategoryRoseAttars, enums.ProductCategoryGiftSets, enums.ProductCategoryAccessories},
	enums.ProductCategoryMuskAttars:       {enums.ProductCategoryOudhAttars, enums.ProductCategorySandalwoodAttars},
	enums.ProductCategoryRoseAttars:       {enums.ProductCategoryFloralAttars, enums.ProductCategoryGiftSets},
	enums.ProductCategorySandalwoodAttars: {enums.ProductCategoryMuskAttars, enums.ProductCategoryBakhoor},
	enums.ProductCategoryBakhoor:          {enums.ProductCategoryOudhAttars, enums.ProductCategoryAccessories},
	enums.ProductCategoryPerfumeOils:      {enums.ProductCategoryAccessories, enums.ProductCategoryGiftSets},
	enums.ProductCategoryGiftSets:         {enums.ProductCategoryOudhAttars, enums.ProductCategoryFloralAttars},
	enums.ProductCategoryAccessories:      {enums.ProductCategoryPerfumeOils, enums.ProductCategoryBakhoor},
}

func isComplement(reference, candidate enums.ProductCategory) bool {
	for _, category := range complementsByCategory[reference] {
		if category == candidate {
			return true
		}
	}
	return false
}
