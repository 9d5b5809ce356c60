package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/bookstore/internal/common"
	"github.com/dmitrijs2005/bookstore/internal/server/models"
	"github.com/dmitrijs2005/bookstore/internal/server/session"
)

// CartService manages the ordered, duplicate-permitting list of book ids
// kept in a session.
type CartService struct {
	catalog *CatalogService
}

func NewCartService(c *CatalogService) *CartService {
	return &CartService{catalog: c}
}

// AddItem appends bookID. Whether the book exists is checked only when the
// cart is resolved. A cart holding common.MaxCartItems entries is full.
func (s *CartService) AddItem(st *session.State, bookID int64) error {
	if len(st.Cart) >= common.MaxCartItems {
		return fmt.Errorf("%w: cart holds at most %d items", common.ErrValidation, common.MaxCartItems)
	}
	st.Cart = append(st.Cart, bookID)
	return nil
}

// ViewCart returns a copy of the cart ids; never nil.
func (s *CartService) ViewCart(st *session.State) []int64 {
	if len(st.Cart) == 0 {
		return []int64{}
	}
	return slices.Clone(st.Cart)
}

func (s *CartService) IsEmpty(st *session.State) bool {
	return len(st.Cart) == 0
}

// Books resolves the cart through the catalog, keeping order and duplicates.
func (s *CartService) Books(ctx context.Context, st *session.State) ([]models.Book, error) {
	return s.catalog.ResolveMany(ctx, s.ViewCart(st))
}
