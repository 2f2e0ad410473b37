package feed

// LoadMoreThreshold is the distance from the bottom of the rendered feed at
// which the next page is requested.
const LoadMoreThreshold = 100

func ShouldLoadMore(viewportHeight, scrollTop, contentHeight float64) bool {
	return viewportHeight+scrollTop >= contentHeight-LoadMoreThreshold
}
