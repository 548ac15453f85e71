package api

// Page is the backend's paginated list envelope. Count is the total across
// all pages and is server-authoritative; the client never computes it.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// DecodePage decodes a 2xx list response into a Page. Non-2xx responses are
// converted via AsError.
func DecodePage[T any](resp *Response) (*Page[T], error) {
	if err := AsError(resp); err != nil {
		return nil, err
	}
	var page Page[T]
	if err := resp.Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}
