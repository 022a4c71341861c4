package listing

import "github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"

// DefaultPageSize is the page size of every dashboard screen.
const DefaultPageSize = 10

// Page is one slice of an ordered project collection.
type Page struct {
	Items      []domain.Project `json:"items"`
	PageIndex  int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
	Total      int              `json:"total"`
}

// TotalPages is ceil(count/size) but never less than 1, so an empty result is still
// "page 1 of 1".
func TotalPages(count, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	n := (count + size - 1) / size
	if n < 1 {
		return 1
	}
	return n
}

// Paginate slices projects into page pageIndex (1-based). An index outside the
// collection yields an empty page; callers reset or clamp the index themselves.
func Paginate(projects []domain.Project, pageSize, pageIndex int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := Page{
		Items:      []domain.Project{},
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		TotalPages: TotalPages(len(projects), pageSize),
		Total:      len(projects),
	}
	if pageIndex < 1 {
		return page
	}

	start := (pageIndex - 1) * pageSize
	if start >= len(projects) {
		return page
	}
	end := start + pageSize
	if end > len(projects) {
		end = len(projects)
	}
	page.Items = append(page.Items, projects[start:end]...)
	return page
}

// Run filters, sorts and paginates projects in one pass.
func Run(projects []domain.Project, c Criteria, pageSize, pageIndex int) Page {
	return Paginate(Sort(Filter(projects, c), c.Order), pageSize, pageIndex)
}

// PageState tracks the criteria and page of one screen between requests.
type PageState struct {
	Criteria Criteria
	Page     int
	Size     int
}

func NewPageState(size int) *PageState {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &PageState{Page: 1, Size: size}
}

// Apply installs new criteria. Any change sends the screen back to page 1.
func (s *PageState) Apply(c Criteria) {
	if !s.Criteria.Equal(c) {
		s.Page = 1
	}
	s.Criteria = c
}

// Go moves to page n; values below 1 become 1.
func (s *PageState) Go(n int) {
	if n < 1 {
		n = 1
	}
	s.Page = n
}

// ClampPage pulls a stale page index back into [1, totalPages].
func (s *PageState) ClampPage(totalPages int) {
	if totalPages < 1 {
		totalPages = 1
	}
	if s.Page > totalPages {
		s.Page = totalPages
	}
	if s.Page < 1 {
		s.Page = 1
	}
}

// Run evaluates the state against projects.
func (s *PageState) Run(projects []domain.Project) Page {
	return Run(projects, s.Criteria, s.Size, s.Page)
}
