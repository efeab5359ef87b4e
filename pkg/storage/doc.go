// Package storage writes rendered documents to disk.
//
// Writes go to a temporary file that is renamed into place, so a reader
// never sees a half-written page. Unless overwriting is enabled an existing
// output is left alone and Save returns ErrExists.
//
//	manager, err := storage.NewManager("public", ".html", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	name := manager.OutputName("posts/trip.md") // trip.html
//	if !manager.IsRendered(name) {
//	    path, err := manager.Save(strings.NewReader(page), name)
//	    ...
//	}
package storage
