// Package batch runs one compiled pipeline over many inputs with a bounded
// number of workers. Every input is an independent invocation; results come
// back in input order.
package batch
