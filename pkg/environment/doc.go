// Package environment names the deployment environment (development,
// staging, production). Parse normalizes the APP_ENV value; the logger
// package derives its level and format from the result.
package environment
