// Package utils holds small helpers shared across xhost.
package utils
