// Package batch applies one task operation to several task titles and
// summarizes the outcome per title.
package batch
