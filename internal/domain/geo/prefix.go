package geo

import (
	"sort"
	"strconv"
)

// prefixRange maps an inclusive range of 3-digit zip prefixes to a regional center.
type prefixRange struct {
	lo, hi int
	region string
	center Point
}

// prefixTable covers every assigned US prefix block (states, DC, PR, VI, GU).
// Military (090-099, 340, 962-966) and unassigned blocks are deliberately absent.
// Must stay sorted by lo with no overlaps.
var prefixTable = []prefixRange{
	{5, 5, "NY-LI", Point{40.81, -73.04}},
	{6, 7, "PR", Point{18.22, -66.59}},
	{8, 8, "VI", Point{18.34, -64.93}},
	{9, 9, "PR", Point{18.40, -66.06}},
	{10, 27, "MA", Point{42.26, -71.80}},
	{28, 29, "RI", Point{41.70, -71.50}},
	{30, 38, "NH", Point{43.45, -71.56}},
	{39, 49, "ME", Point{44.69, -69.38}},
	{50, 59, "VT", Point{44.07, -72.67}},
	{60, 69, "CT", Point{41.60, -72.69}},
	{70, 89, "NJ", Point{40.19, -74.67}},
	{100, 104, "NY-NYC", Point{40.71, -74.00}},
	{105, 119, "NY-SE", Point{40.92, -73.40}},
	{120, 149, "NY-UP", Point{42.90, -75.50}},
	{150, 168, "PA-W", Point{40.90, -79.60}},
	{169, 196, "PA-E", Point{40.50, -76.50}},
	{197, 199, "DE", Point{39.16, -75.52}},
	{200, 205, "DC", Point{38.90, -77.03}},
	{206, 219, "MD", Point{39.05, -76.64}},
	{220, 246, "VA", Point{37.77, -78.17}},
	{247, 268, "WV", Point{38.49, -80.95}},
	{270, 289, "NC", Point{35.63, -79.81}},
	{290, 299, "SC", Point{33.86, -80.95}},
	{300, 319, "GA", Point{32.99, -83.64}},
	{320, 339, "FL", Point{27.77, -81.69}},
	{341, 349, "FL-S", Point{26.60, -81.20}},
	{350, 369, "AL", Point{32.81, -86.79}},
	{370, 385, "TN", Point{35.75, -86.69}},
	{386, 397, "MS", Point{32.74, -89.68}},
	{398, 399, "GA-S", Point{31.60, -84.20}},
	{400, 427, "KY", Point{37.67, -84.67}},
	{430, 459, "OH", Point{40.39, -82.76}},
	{460, 479, "IN", Point{39.85, -86.26}},
	{480, 499, "MI", Point{43.33, -84.54}},
	{500, 528, "IA", Point{42.01, -93.21}},
	{530, 549, "WI", Point{44.27, -89.62}},
	{550, 567, "MN", Point{45.69, -93.90}},
	{570, 577, "SD", Point{44.30, -99.44}},
	{580, 588, "ND", Point{47.53, -99.78}},
	{590, 599, "MT", Point{46.92, -110.45}},
	{600, 609, "IL-CHI", Point{41.88, -87.63}},
	{610, 629, "IL", Point{40.35, -89.00}},
	{630, 658, "MO", Point{38.46, -92.29}},
	{660, 679, "KS", Point{38.53, -96.73}},
	{680, 693, "NE", Point{41.13, -98.27}},
	{700, 715, "LA", Point{31.17, -91.87}},
	{716, 729, "AR", Point{34.97, -92.37}},
	{730, 749, "OK", Point{35.57, -96.93}},
	{750, 759, "TX-DFW", Point{32.78, -96.80}},
	{760, 769, "TX-N", Point{32.00, -98.50}},
	{770, 779, "TX-HOU", Point{29.76, -95.37}},
	{780, 789, "TX-S", Point{29.42, -98.49}},
	{790, 799, "TX-W", Point{31.90, -102.00}},
	{800, 816, "CO", Point{39.06, -105.31}},
	{820, 831, "WY", Point{42.76, -107.30}},
	{832, 838, "ID", Point{44.24, -114.48}},
	{840, 847, "UT", Point{40.15, -111.86}},
	{850, 865, "AZ", Point{33.73, -111.43}},
	{870, 884, "NM", Point{34.84, -106.25}},
	{885, 885, "TX-ELP", Point{31.76, -106.49}},
	{889, 898, "NV", Point{38.31, -117.06}},
	{900, 918, "CA-LA", Point{34.05, -118.24}},
	{919, 921, "CA-SD", Point{32.72, -117.16}},
	{922, 928, "CA-IE", Point{33.90, -117.30}},
	{930, 939, "CA-C", Point{36.40, -119.70}},
	{940, 954, "CA-BAY", Point{37.77, -122.42}},
	{955, 961, "CA-N", Point{39.50, -121.50}},
	{967, 968, "HI", Point{21.09, -157.50}},
	{969, 969, "GU", Point{13.44, 144.79}},
	{970, 979, "OR", Point{44.57, -122.07}},
	{980, 994, "WA", Point{47.40, -121.49}},
	{995, 999, "AK", Point{61.37, -152.40}},
}

// PrefixCenter returns the coarse regional center for a 3-digit zip prefix.
func PrefixCenter(prefix string) (Point, string, bool) {
	if len(prefix) != 3 || !allDigits(prefix) {
		return Point{}, "", false
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return Point{}, "", false
	}

	i := sort.Search(len(prefixTable), func(i int) bool { return prefixTable[i].hi >= n })
	if i == len(prefixTable) || prefixTable[i].lo > n {
		return Point{}, "", false
	}
	r := prefixTable[i]
	return r.center, r.region, true
}
