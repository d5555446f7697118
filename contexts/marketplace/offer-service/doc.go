// Package offerservice implements the marketplace offer lifecycle: buyers make
// offers on listings, sellers accept or reject them, and authors edit or
// withdraw their own offers.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package offerservice
