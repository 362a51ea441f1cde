package service

import (
	"context"
	"fmt"
	"strings"

	"go-sales-desk/internal/events"
	"go-sales-desk/internal/model"
	"go-sales-desk/internal/repository"
	"go-sales-desk/pkg/validator"

	"github.com/google/uuid"
)

type CustomerRequest struct {
	Name    string `json:"name" validate:"notblank,max=255"`
	Address string `json:"address"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, req *CustomerRequest, actor *events.Actor) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req *CustomerRequest, actor *events.Actor) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID, actor *events.Actor) error
	CustomerSales(ctx context.Context, id uuid.UUID) ([]repository.SaleSummary, error)
}

type customerService struct {
	customers repository.CustomerRepository
	sales     repository.SaleRepository
	deps      Deps
}

func NewCustomerService(customers repository.CustomerRepository, sales repository.SaleRepository, deps Deps) CustomerService {
	return &customerService{customers: customers, sales: sales, deps: deps.withDefaults()}
}

// optional maps a blank form field to NULL so the unique index ignores it
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (r *CustomerRequest) apply(c *model.Customer) {
	c.Name = strings.TrimSpace(r.Name)
	c.Address = strings.TrimSpace(r.Address)
	c.Phone = optional(r.Phone)
	c.Email = optional(r.Email)
}

func (s *customerService) CreateCustomer(ctx context.Context, req *CustomerRequest, actor *events.Actor) (*model.Customer, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	customer := &model.Customer{}
	req.apply(customer)
	customer.CreatedBy = actorID(actor)
	customer.UpdatedBy = actorID(actor)

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.deps.invalidateDashboard(ctx)
	s.deps.notify(ctx, events.New(events.CustomerCreated, customer, actor,
		fmt.Sprintf("%s added customer '%s'", actorName(actor), customer.Name)))
	return customer, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.customers.FindAll(ctx)
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req *CustomerRequest, actor *events.Actor) (*model.Customer, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	customer := &model.Customer{}
	customer.ID = id
	req.apply(customer)
	customer.UpdatedBy = actorID(actor)

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}

	updated, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.deps.notify(ctx, events.New(events.CustomerUpdated, updated, actor,
		fmt.Sprintf("%s updated customer '%s'", actorName(actor), updated.Name)))
	return updated, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id uuid.UUID, actor *events.Actor) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}

	s.deps.invalidateDashboard(ctx)
	s.deps.notify(ctx, events.New(events.CustomerDeleted, map[string]string{"id": id.String()}, actor,
		fmt.Sprintf("%s deleted a customer", actorName(actor))))
	return nil
}

func (s *customerService) CustomerSales(ctx context.Context, id uuid.UUID) ([]repository.SaleSummary, error) {
	if _, err := s.customers.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.sales.ByCustomer(ctx, id)
}
