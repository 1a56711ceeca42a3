package apiclient

import (
	"clinicbook/internal/pagination"
	"clinicbook/internal/terminology"
)

var _ terminology.Remote = (*Client)(nil)

// AppointmentsFetcher pages through all appointments
func (c *Client) AppointmentsFetcher() pagination.Fetcher {
	return pagination.FetcherFunc(c.ListAppointments)
}

// PendingFetcher pages through pending appointments
func (c *Client) PendingFetcher() pagination.Fetcher {
	return pagination.FetcherFunc(c.ListPending)
}
