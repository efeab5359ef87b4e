package gallery

import "vkgallery/pkg/vk"

// SizeTier names one of the size-keyed URL fields of a photo record
type SizeTier string

const (
	SizeSmall  SizeTier = vk.SizeSmall
	SizeMedium SizeTier = vk.SizeMedium
	SizeBig    SizeTier = vk.SizeBig
	SizeXBig   SizeTier = vk.SizeXBig
	SizeXXBig  SizeTier = vk.SizeXXBig
)

// SizeTiers lists every tier, smallest first
var SizeTiers = []SizeTier{SizeSmall, SizeMedium, SizeBig, SizeXBig, SizeXXBig}

func tierIndex(tier SizeTier) int {
	for i, t := range SizeTiers {
		if t == tier {
			return i
		}
	}
	return -1
}

// Known reports whether tier is one of SizeTiers
func (t SizeTier) Known() bool {
	return tierIndex(t) >= 0
}

// ResolveSizeRange returns the inclusive slice of SizeTiers between minTier
// and maxTier by position. An unknown minTier starts at the smallest tier and
// an unknown maxTier ends at the largest. Reversed bounds are swapped so the result is never
// empty.
func ResolveSizeRange(minTier, maxTier SizeTier) []SizeTier {
	lo := tierIndex(minTier)
	if lo < 0 {
		lo = 0
	}
	hi := tierIndex(maxTier)
	if hi < 0 {
		hi = len(SizeTiers) - 1
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	tiers := make([]SizeTier, hi-lo+1)
	copy(tiers, SizeTiers[lo:hi+1])
	return tiers
}

// SelectURL returns the URL of the first tier in tiers the photo carries
func SelectURL(photo vk.Photo, tiers []SizeTier) (string, bool) {
	for _, tier := range tiers {
		if u, ok := photo.URL(string(tier)); ok {
			return u, true
		}
	}
	return "", false
}

// SelectLargestURL returns the URL of the last tier in tiers the photo carries
func SelectLargestURL(photo vk.Photo, tiers []SizeTier) (string, bool) {
	for i := len(tiers) - 1; i >= 0; i-- {
		if u, ok := photo.URL(string(tiers[i])); ok {
			return u, true
		}
	}
	return "", false
}
