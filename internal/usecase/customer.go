package usecase

import (
	"context"
	"strings"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

// CreateCustomerInput captures the payload for adding a customer.
type CreateCustomerInput struct {
	Name    string  `json:"name" validate:"required,max=128"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
	Address *string `json:"address" validate:"omitempty,max=256"`
}

// UpdateCustomerInput lists the customer attributes an update may change.
type UpdateCustomerInput struct {
	ID      string  `json:"-" validate:"required"`
	Name    *string `json:"name" validate:"omitempty,min=1,max=128"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
	Address *string `json:"address" validate:"omitempty,max=256"`
}

// ListCustomersInput narrows a customer listing.
type ListCustomersInput struct {
	Search string `form:"q" json:"q"`
	Limit  int    `form:"limit" json:"limit"`
	Offset int    `form:"offset" json:"offset"`
}

// CustomerService manages the customers of a tenant.
type CustomerService struct {
	controller
	customers port.CustomerRepository
}

// NewCustomerService constructs a CustomerService.
func NewCustomerService(deps ControllerDeps, customers port.CustomerRepository) *CustomerService {
	return &CustomerService{controller: newController(deps), customers: customers}
}

func (s *CustomerService) Create(ctx context.Context, actor domain.Principal, input CreateCustomerInput) (*domain.Customer, error) {
	op := PolicyCustomerCreate.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyCustomerCreate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	now := s.now()
	customer := domain.Customer{
		ID:        s.newID(),
		TenantID:  actor.TenantID,
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:     trimmedPtr(input.Phone),
		Address:   trimmedPtr(input.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, storageError(op, domain.ResourceCustomer, err)
	}

	s.publishChange(ctx, actor, domain.ResourceCustomer, customer.ID, domain.EntityCreated, nil)
	return &customer, nil
}

func (s *CustomerService) Get(ctx context.Context, actor domain.Principal, id string) (*domain.Customer, error) {
	if err := s.authorizeResource(ctx, actor, domain.ResourceCustomer, id, PolicyCustomerRead); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, storageError(PolicyCustomerRead.Name, domain.ResourceCustomer, err)
	}
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context, actor domain.Principal, input ListCustomersInput) ([]domain.Customer, error) {
	op := PolicyCustomerList.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyCustomerList); err != nil {
		return nil, err
	}

	customers, err := s.customers.List(ctx, actor.TenantID, listFilter("", input.Search, input.Limit, input.Offset))
	if err != nil {
		return nil, storageError(op, domain.ResourceCustomer, err)
	}
	return customers, nil
}

func (s *CustomerService) Update(ctx context.Context, actor domain.Principal, input UpdateCustomerInput) (*domain.Customer, error) {
	op := PolicyCustomerUpdate.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceCustomer, input.ID, PolicyCustomerUpdate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByID(ctx, actor.TenantID, input.ID)
	if err != nil {
		return nil, storageError(op, domain.ResourceCustomer, err)
	}

	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		customer.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		customer.Phone = trimmedPtr(input.Phone)
	}
	if input.Address != nil {
		customer.Address = trimmedPtr(input.Address)
	}
	customer.UpdatedAt = s.now()

	if err := s.customers.Update(ctx, *customer); err != nil {
		return nil, storageError(op, domain.ResourceCustomer, err)
	}

	s.publishChange(ctx, actor, domain.ResourceCustomer, customer.ID, domain.EntityUpdated, nil)
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	op := PolicyCustomerDelete.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceCustomer, id, PolicyCustomerDelete); err != nil {
		return err
	}

	if err := s.customers.Delete(ctx, actor.TenantID, id); err != nil {
		return storageError(op, domain.ResourceCustomer, err)
	}

	s.publishChange(ctx, actor, domain.ResourceCustomer, id, domain.EntityDeleted, nil)
	return nil
}
