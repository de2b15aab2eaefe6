package domain

import "math"

// BlogPostsPageSize is the number of posts shown per page of the blog
const BlogPostsPageSize = 10

// PageRequest selects one page of results. Page is zero-based.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest builds a page request. A negative page clamps to 0 and a
// non-positive size becomes BlogPostsPageSize. The page is capped so that
// Page*Size and Page+1 both fit in an int.
func NewPageRequest(page, size int) PageRequest {
	if size <= 0 {
		size = BlogPostsPageSize
	}
	if page < 0 {
		page = 0
	}
	if maxPage := math.MaxInt/size - 1; page > maxPage {
		page = maxPage
	}
	return PageRequest{Page: page, Size: size}
}

// NewBlogPostsPageRequest returns the given page of the blog at the standard page size
func NewBlogPostsPageRequest(page int) PageRequest {
	return NewPageRequest(page, BlogPostsPageSize)
}

func (r PageRequest) normalized() PageRequest {
	return NewPageRequest(r.Page, r.Size)
}

func (r PageRequest) Limit() int {
	return r.normalized().Size
}

func (r PageRequest) Offset() int {
	n := r.normalized()
	return n.Page * n.Size
}

// PaginationInfo is the page metadata shown alongside a listing
type PaginationInfo struct {
	CurrentPage int64 `json:"current_page"`
	TotalPages  int64 `json:"total_pages"`
}

// NewPaginationInfo derives the 1-based current page and the total page count
// for total items. There is always at least one page.
func NewPaginationInfo(req PageRequest, total int64) PaginationInfo {
	n := req.normalized()
	size := int64(n.Size)

	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}

	return PaginationInfo{
		CurrentPage: int64(n.Page) + 1,
		TotalPages:  pages,
	}
}
