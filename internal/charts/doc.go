// Package charts draws the dashboard charts of a page report as PNG images
// with gonum/plot. Chart names are the table names of the page they belong
// to; failures come back as *errors.AppError of type RENDER.
package charts
