// Package page reads HTML and Markdown documents, finds the container that
// holds an album link and writes a generated gallery back into it.
package page
