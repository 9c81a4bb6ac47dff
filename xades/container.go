package xades

// ContainerInfo is the external collaborator that knows the set of
// documents a BDOC container holds. The signature engine never reads
// container files itself; it only asserts, one reference at a time, that
// each reference's digest matches what the container holder computed.
type ContainerInfo interface {
	// DocumentCount returns the number of documents in the container, not
	// counting the signature file itself.
	DocumentCount() int

	// CheckDocumentsBegin resets per-validation bookkeeping before a new
	// round of CheckDocument calls.
	CheckDocumentsBegin()

	// CheckDocument asserts that the container document named by uri has
	// digest digestValue under the algorithm named by digestAlgURI.
	CheckDocument(uri, digestAlgURI string, digestValue []byte)

	// CheckDocumentsResult reports whether every container document was
	// referenced exactly once with a matching digest.
	CheckDocumentsResult() bool
}
