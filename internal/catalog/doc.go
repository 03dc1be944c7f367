// Package catalog holds the per-city crane rates, the fleet availability of
// every city and the distances between them, and decides which city supplies
// a crane for a job.
package catalog
