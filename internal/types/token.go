package types

// Paths carries the hypermedia links returned with a token resource.
// Sub-resources must be addressed via Self rather than constructed
// client-side.
type Paths struct {
	Self string `json:"self"`
}

// MasterToken is a named credential scoped to a repository. Its value
// is a secret issued by packagecloud; ReadTokens lists the read tokens
// minted under it.
type MasterToken struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Value      string      `json:"value"`
	Paths      Paths       `json:"paths"`
	ReadTokens []ReadToken `json:"read_tokens"`
}

// ReadToken is a named credential scoped under a master token.
type ReadToken struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}
