package filehash

// Result is the outcome of a successful Hash call.
type Result struct {
	Key    string `json:"key"`
	Hash   string `json:"hash"`
	Cached bool   `json:"cached"`
	Hits   int64  `json:"hits"`
}

// String renders the response body: "<key> - <hash>".
func (r Result) String() string {
	return r.Key + " - " + r.Hash
}
