// Package loader mounts feature handlers onto the HTTP facade.
package loader
