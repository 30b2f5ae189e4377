package recommendations

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/zaidansari/attarmart-backend/pkg/db/models"
)

// Scoring weights. The absolute values only matter relative to each other;
// they bias category affinity above price proximity above brand loyalty.
const (
	relatedCategoryWeight = 40
	relatedPriceWeight    = 25
	relatedBrandWeight    = 20
	relatedRatingWeight   = 10
	relatedTagWeight      = 5
	relatedPriceBand      = 0.30
	relatedRatingBand     = 0.5

	fbtComplementWeight = 50
	fbtCategoryWeight   = 30
	fbtPriceWeight      = 30
	fbtRatingFactor     = 10
	fbtStockWeight      = 10
	fbtPriceRatioMin    = 0.1
	fbtPriceRatioMax    = 0.6

	personalCategoryWeight = 30
	personalBrandWeight    = 20
	personalRatingFactor   = 5
	personalFeaturedWeight = 10
	personalPriceWeight    = 10
	personalStockWeight    = 5
	personalPriceBand      = 0.50

	trendingRatingFactor   = 10
	trendingFeaturedWeight = 10

	fallbackRatingFloor = 4.0
)

// Scorer ranks catalog products in memory. The jitter source is seeded at
// construction so tests can pin the randomness while production uses a
// per-process seed.
type Scorer struct {
	mu        sync.Mutex
	rng       *rand.Rand
	maxJitter float64
}

// NewScorer builds a scorer whose jitter draws from the given seed.
func NewScorer(seed int64, maxJitter float64) *Scorer {
	if maxJitter < 0 {
		maxJitter = 0
	}
	return &Scorer{
		rng:       rand.New(rand.NewSource(seed)),
		maxJitter: maxJitter,
	}
}

func (s *Scorer) jitter() float64 {
	if s.maxJitter == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() * s.maxJitter
}

type scored struct {
	product models.Product
	score   float64
}

// rank sorts descending by score. The stable sort keeps catalog order as the
// tie-break.
func rank(candidates []scored, maxItems int) []models.Product {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if maxItems > 0 && len(candidates) > maxItems {
		candidates = candidates[:maxItems]
	}
	products := make([]models.Product, 0, len(candidates))
	for _, candidate := range candidates {
		products = append(products, candidate.product)
	}
	return products
}

// Related scores every other catalog product by similarity to the reference.
func (s *Scorer) Related(reference models.Product, catalog []models.Product, maxItems int) []models.Product {
	candidates := make([]scored, 0, len(catalog))
	for _, candidate := range catalog {
		if candidate.ID == reference.ID {
			continue
		}
		score := 0.0
		if candidate.Category == reference.Category {
			score += relatedCategoryWeight
		}
		if priceWithin(candidate.PriceCents, reference.PriceCents, relatedPriceBand) {
			score += relatedPriceWeight
		}
		if candidate.Brand == reference.Brand {
			score += relatedBrandWeight
		}
		if math.Abs(candidate.Rating-reference.Rating) <= relatedRatingBand {
			score += relatedRatingWeight
		}
		score += tagOverlap(candidate.Tags, reference.Tags) * relatedTagWeight
		candidates = append(candidates, scored{product: candidate, score: score})
	}
	return rank(candidates, maxItems)
}

// FrequentlyBoughtTogether scores candidates as likely companions to the
// reference: complementary shelves and cheaper add-ons rank highest.
func (s *Scorer) FrequentlyBoughtTogether(reference models.Product, catalog []models.Product, maxItems int) []models.Product {
	candidates := make([]scored, 0, len(catalog))
	for _, candidate := range catalog {
		if candidate.ID == reference.ID {
			continue
		}
		score := 0.0
		if isComplement(reference.Category, candidate.Category) {
			score += fbtComplementWeight
		}
		if candidate.Category == reference.Category {
			score += fbtCategoryWeight
		}
		if reference.PriceCents > 0 {
			ratio := float64(candidate.PriceCents) / float64(reference.PriceCents)
			if ratio >= fbtPriceRatioMin && ratio <= fbtPriceRatioMax {
				score += fbtPriceWeight
			}
		}
		score += candidate.Rating * fbtRatingFactor
		if candidate.Stock > 0 {
			score += fbtStockWeight
		}
		candidates = append(candidates, scored{product: candidate, score: score})
	}
	return rank(candidates, maxItems)
}

// viewProfile is the implicit taste derived from recently viewed products.
type viewProfile struct {
	viewedIDs  map[string]struct{}
	categories map[string]struct{}
	brands     map[string]struct{}
	meanPrice  float64
}

func profileFromViewed(viewed []models.Product) viewProfile {
	profile := viewProfile{
		viewedIDs:  make(map[string]struct{}, len(viewed)),
		categories: make(map[string]struct{}, len(viewed)),
		brands:     make(map[string]struct{}, len(viewed)),
	}
	total := 0
	for _, product := range viewed {
		profile.viewedIDs[product.ID.String()] = struct{}{}
		profile.categories[product.Category.String()] = struct{}{}
		profile.brands[product.Brand] = struct{}{}
		total += product.PriceCents
	}
	if len(viewed) > 0 {
		profile.meanPrice = float64(total) / float64(len(viewed))
	}
	return profile
}

// Personalized ranks unviewed products against the viewer's implicit profile.
// A per-call jitter keeps repeated requests from returning an identical list.
// With no history it falls back to featured and highly rated products.
func (s *Scorer) Personalized(viewed []models.Product, catalog []models.Product, maxItems int) []models.Product {
	if len(viewed) == 0 {
		return s.featuredFallback(catalog, maxItems)
	}

	profile := profileFromViewed(viewed)
	candidates := make([]scored, 0, len(catalog))
	for _, candidate := range catalog {
		if _, seen := profile.viewedIDs[candidate.ID.String()]; seen {
			continue
		}
		score := 0.0
		if _, ok := profile.categories[candidate.Category.String()]; ok {
			score += personalCategoryWeight
		}
		if _, ok := profile.brands[candidate.Brand]; ok {
			score += personalBrandWeight
		}
		score += candidate.Rating * personalRatingFactor
		if candidate.IsFeatured {
			score += personalFeaturedWeight
		}
		if profile.meanPrice > 0 && priceWithinMean(candidate.PriceCents, profile.meanPrice, personalPriceBand) {
			score += personalPriceWeight
		}
		if candidate.Stock > 0 {
			score += personalStockWeight
		}
		score += s.jitter()
		candidates = append(candidates, scored{product: candidate, score: score})
	}
	return rank(candidates, maxItems)
}

// featuredFallback serves the cold-start case: featured or rating >= 4.0,
// featured shelf first, then by rating.
func (s *Scorer) featuredFallback(catalog []models.Product, maxItems int) []models.Product {
	eligible := make([]models.Product, 0, len(catalog))
	for _, product := range catalog {
		if product.IsFeatured || product.Rating >= fallbackRatingFloor {
			eligible = append(eligible, product)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].IsFeatured != eligible[j].IsFeatured {
			return eligible[i].IsFeatured
		}
		return eligible[i].Rating > eligible[j].Rating
	})
	if maxItems > 0 && len(eligible) > maxItems {
		eligible = eligible[:maxItems]
	}
	return eligible
}

// Trending ranks by rating and the featured flag, with jitter for rotation.
func (s *Scorer) Trending(catalog []models.Product, maxItems int) []models.Product {
	candidates := make([]scored, 0, len(catalog))
	for _, candidate := range catalog {
		score := candidate.Rating * trendingRatingFactor
		if candidate.IsFeatured {
			score += trendingFeaturedWeight
		}
		score += s.jitter()
		candidates = append(candidates, scored{product: candidate, score: score})
	}
	return rank(candidates, maxItems)
}

// NewArrivals returns the newest products first.
func (s *Scorer) NewArrivals(catalog []models.Product, maxItems int) []models.Product {
	arrivals := make([]models.Product, len(catalog))
	copy(arrivals, catalog)
	sort.SliceStable(arrivals, func(i, j int) bool {
		return arrivals[i].CreatedAt.After(arrivals[j].CreatedAt)
	})
	if maxItems > 0 && len(arrivals) > maxItems {
		arrivals = arrivals[:maxItems]
	}
	return arrivals
}

// priceWithin reports whether candidate is inside the band around reference,
// relative to the reference price.
func priceWithin(candidate, reference int, band float64) bool {
	if reference <= 0 {
		return candidate == reference
	}
	diff := math.Abs(float64(candidate - reference))
	return diff/float64(reference) <= band
}

func priceWithinMean(candidate int, mean, band float64) bool {
	if mean <= 0 {
		return false
	}
	return math.Abs(float64(candidate)-mean)/mean <= band
}

// tagOverlap is the Jaccard ratio of the two tag sets.
func tagOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, tag := range a {
		set[tag] = struct{}{}
	}
	shared := 0
	union := len(set)
	for _, tag := range b {
		if _, ok := set[tag]; ok {
			shared++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}
