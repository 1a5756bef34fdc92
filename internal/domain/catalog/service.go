package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/example/gardenia/internal/apperr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SearchParams filters the public product listing.
type SearchParams struct {
	Query           string
	Category        Category
	MinPrice        decimal.Decimal
	MaxPrice        decimal.Decimal
	InStockOnly     bool
	IncludeInactive bool
	Limit           int
	Offset          int
}

// Store is the persistence surface the catalog service needs. The
// PostgreSQL implementation lives in internal/infrastructure/store.
type Store interface {
	Product(ctx context.Context, id string) (*Product, error)
	SearchProducts(ctx context.Context, params SearchParams) ([]*Product, error)
	SaveProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error

	Supplier(ctx context.Context, id string) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	SaveSupplier(ctx context.Context, s *Supplier) error
	DeleteSupplier(ctx context.Context, id string) error
	DetachSupplier(ctx context.Context, supplierID string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ProductInput carries the writable product fields for create/update.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	SupplierID  string
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.New(apperr.Validation, "product name is required")
	}
	if in.Price.IsNegative() {
		return apperr.New(apperr.Validation, "price must not be negative")
	}
	if in.Stock < 0 {
		return apperr.New(apperr.Validation, "stock must not be negative")
	}
	if _, err := ParseCategory(in.Category); err != nil {
		return err
	}
	return nil
}

// Product returns a single product. Inactive products are hidden unless
// includeInactive is set (admin views).
func (s *Service) Product(ctx context.Context, id string, includeInactive bool) (*Product, error) {
	p, err := s.store.Product(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active && !includeInactive {
		return nil, apperr.New(apperr.NotFound, "product not found")
	}
	return p, nil
}

func (s *Service) Search(ctx context.Context, params SearchParams) ([]*Product, error) {
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}
	return s.store.SearchProducts(ctx, params)
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.SupplierID != "" {
		if _, err := s.store.Supplier(ctx, in.SupplierID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	p := &Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    Category(in.Category),
		SupplierID:  in.SupplierID,
		Active:      true,
		Images:      []Image{},
		Reviews:     []Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.store.Product(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SupplierID != "" && in.SupplierID != p.SupplierID {
		if _, err := s.store.Supplier(ctx, in.SupplierID); err != nil {
			return nil, err
		}
	}

	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.Category = Category(in.Category)
	p.SupplierID = in.SupplierID
	p.UpdatedAt = time.Now()
	if err := s.store.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SoftDeleteProduct hides the product from the storefront without losing
// its history (orders keep their snapshots regardless).
func (s *Service) SoftDeleteProduct(ctx context.Context, id string) error {
	return s.setProductActive(ctx, id, false)
}

func (s *Service) RestoreProduct(ctx context.Context, id string) (*Product, error) {
	if err := s.setProductActive(ctx, id, true); err != nil {
		return nil, err
	}
	return s.store.Product(ctx, id)
}

func (s *Service) setProductActive(ctx context.Context, id string, active bool) error {
	p, err := s.store.Product(ctx, id)
	if err != nil {
		return err
	}
	p.Active = active
	p.UpdatedAt = time.Now()
	return s.store.SaveProduct(ctx, p)
}

func (s *Service) HardDeleteProduct(ctx context.Context, id string) error {
	if _, err := s.store.Product(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteProduct(ctx, id)
}

// AddImage appends an uploaded image to the product's ordered image list.
func (s *Service) AddImage(ctx context.Context, productID string, img Image) (*Product, error) {
	p, err := s.store.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	p.Images = append(p.Images, img)
	p.UpdatedAt = time.Now()
	if err := s.store.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveImage detaches an image and returns it so the caller can delete
// the stored file.
func (s *Service) RemoveImage(ctx context.Context, productID, imageID string) (Image, error) {
	p, err := s.store.Product(ctx, productID)
	if err != nil {
		return Image{}, err
	}
	for i, img := range p.Images {
		if img.ID == imageID {
			p.Images = append(p.Images[:i], p.Images[i+1:]...)
			p.UpdatedAt = time.Now()
			if err := s.store.SaveProduct(ctx, p); err != nil {
				return Image{}, err
			}
			return img, nil
		}
	}
	return Image{}, apperr.New(apperr.NotFound, "image not found")
}

// SupplierInput carries the writable supplier fields.
type SupplierInput struct {
	Name  string
	Email string
	Phone string
}

func (s *Service) CreateSupplier(ctx context.Context, in SupplierInput) (*Supplier, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.New(apperr.Validation, "supplier name is required")
	}
	now := time.Now()
	sup := &Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.SaveSupplier(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id string, in SupplierInput) (*Supplier, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.New(apperr.Validation, "supplier name is required")
	}
	sup, err := s.store.Supplier(ctx, id)
	if err != nil {
		return nil, err
	}
	sup.Name = in.Name
	sup.Email = in.Email
	sup.Phone = in.Phone
	sup.UpdatedAt = time.Now()
	if err := s.store.SaveSupplier(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *Service) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	return s.store.ListSuppliers(ctx)
}

// SoftDeleteSupplier deactivates the supplier and detaches it from every
// product that references it. Products themselves are left untouched.
func (s *Service) SoftDeleteSupplier(ctx context.Context, id string) error {
	sup, err := s.store.Supplier(ctx, id)
	if err != nil {
		return err
	}
	sup.Active = false
	sup.UpdatedAt = time.Now()
	if err := s.store.SaveSupplier(ctx, sup); err != nil {
		return err
	}
	return s.store.DetachSupplier(ctx, id)
}

func (s *Service) HardDeleteSupplier(ctx context.Context, id string) error {
	if _, err := s.store.Supplier(ctx, id); err != nil {
		return err
	}
	if err := s.store.DetachSupplier(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteSupplier(ctx, id)
}
