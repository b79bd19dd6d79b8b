// Package mock is used to generate mock files for testing.
package mock

//go:generate mockgen -destination mock_orcid/mock_orcid_iface.go github.com/armanbilge/lucuma-sso/orcid Authenticator
//go:generate mockgen -source ../storage/storage.go -destination mock_storage/mock_storage.go
//go:generate mockgen -package sso -source ../cookies.go -destination ../mock_cookies_test.go
