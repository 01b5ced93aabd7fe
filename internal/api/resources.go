package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"medequip-admin/internal/core"
)

// Resource is the uniform CRUD surface of one backend collection.
// T is the entity, In the create/update body.
type Resource[T any, In any] struct {
	c    *Client
	path string
}

// List fetches one page of the collection.
func (r Resource[T, In]) List(ctx context.Context, opts core.ListOptions) ([]T, core.Pagination, error) {
	var items []T
	p, err := r.c.List(ctx, r.path, listParams(opts), &items)
	if err != nil {
		return nil, core.Pagination{}, err
	}
	if items == nil {
		items = []T{}
	}
	return items, p, nil
}

func (r Resource[T, In]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.c.Do(ctx, http.MethodGet, r.path+"/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T, In]) Create(ctx context.Context, in In) (*T, error) {
	var out T
	if err := r.c.Do(ctx, http.MethodPost, r.path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T, In]) Update(ctx context.Context, id string, in In) (*T, error) {
	var out T
	if err := r.c.Do(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T, In]) Delete(ctx context.Context, id string) error {
	return r.c.Do(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Customers() Resource[core.Customer, core.CustomerInput] {
	return Resource[core.Customer, core.CustomerInput]{c: c, path: "/customers"}
}

func (c *Client) Machines() Resource[core.Machine, core.MachineInput] {
	return Resource[core.Machine, core.MachineInput]{c: c, path: "/machines"}
}

func (c *Client) Services() Resource[core.Service, core.ServiceInput] {
	return Resource[core.Service, core.ServiceInput]{c: c, path: "/services"}
}

func (c *Client) Invoices() Resource[core.Invoice, core.InvoiceInput] {
	return Resource[core.Invoice, core.InvoiceInput]{c: c, path: "/invoices"}
}

func (c *Client) AMCs() Resource[core.AMC, core.AMCInput] {
	return Resource[core.AMC, core.AMCInput]{c: c, path: "/amcs"}
}

// listParams encodes page/limit plus every non-empty filter.
func listParams(o core.ListOptions) url.Values {
	o = o.Normalize()
	v := url.Values{}
	v.Set("page", strconv.Itoa(o.Page))
	v.Set("limit", strconv.Itoa(o.Limit))
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("search", o.Search)
	set("status", o.Status)
	set("customerId", o.CustomerID)
	set("startDate", o.StartDate)
	set("endDate", o.EndDate)
	return v
}
