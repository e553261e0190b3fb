package domain

import "errors"

var (
	// ErrMissingQuery is returned when a search is started without a product name
	ErrMissingQuery = errors.New("please enter a product name")

	// ErrMissingPrice is returned when a search is started without a reference price
	ErrMissingPrice = errors.New("please enter the price you paid")

	// ErrBackendFailure is returned when a request to the comparison backend fails
	ErrBackendFailure = errors.New("backend request failed")

	// ErrNoSearch is returned when "more results" is requested before any search ran
	ErrNoSearch = errors.New("no search has been started")

	// ErrPollInFlight is returned when a "more results" poll loop is already running
	ErrPollInFlight = errors.New("more results fetch already in progress")

	// ErrPollExhausted is returned when the poll loop gives up after its attempt ceiling
	ErrPollExhausted = errors.New("backend still loading after maximum poll attempts")
)
