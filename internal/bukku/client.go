package bukku

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// listPageSize is the page size requested on list endpoints.
const listPageSize = 100

// TokenProvider supplies the bearer token used to authenticate API requests.
type TokenProvider interface {
	// APIToken returns the current API token.
	APIToken(ctx context.Context) (string, error)
}

// Client is a Bukku API client.
type Client struct {
	// baseURL is the base URL for API requests.
	baseURL string

	// httpClient is the HTTP client for making requests.
	httpClient *http.Client

	// tokens supplies the bearer token for each request.
	tokens TokenProvider
}

// NewClient creates a new Bukku API client.
func NewClient(tokens TokenProvider, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("token provider is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		baseURL:    o.baseURL,
		httpClient: httpClient,
		tokens:     tokens,
	}, nil
}

// FindContactByEmail returns the first contact matching the given email,
// or nil if no contact matches.
func (c *Client) FindContactByEmail(ctx context.Context, email string) (*Contact, error) {
	params := url.Values{}
	params.Set("email", email)

	var result contactListResponse
	if err := c.doRequest(ctx, http.MethodGet, "/contacts?"+params.Encode(), nil, &result); err != nil {
		return nil, fmt.Errorf("finding contact by email: %w", err)
	}

	if len(result.Data) == 0 {
		return nil, nil
	}
	return &result.Data[0], nil
}

// Contacts returns all contacts, handling pagination automatically.
func (c *Client) Contacts(ctx context.Context) ([]Contact, error) {
	var all []Contact

	for page := 1; ; page++ {
		var result contactListResponse
		if err := c.doRequest(ctx, http.MethodGet, listPath("/contacts", page), nil, &result); err != nil {
			return nil, fmt.Errorf("listing contacts: %w", err)
		}

		all = append(all, result.Data...)
		if result.Paging.LastPage <= page {
			break
		}
	}

	return all, nil
}

// CreateContact creates a new contact and returns the created record.
func (c *Client) CreateContact(ctx context.Context, contact *Contact) (*Contact, error) {
	var result Contact
	if err := c.doRequest(ctx, http.MethodPost, "/contacts", contact, &result); err != nil {
		return nil, fmt.Errorf("creating contact: %w", err)
	}
	return &result, nil
}

// UpdateContact updates an existing contact by ID and returns the updated record.
func (c *Client) UpdateContact(ctx context.Context, contactID int64, contact *Contact) (*Contact, error) {
	var result Contact
	path := fmt.Sprintf("/contacts/%d", contactID)
	if err := c.doRequest(ctx, http.MethodPut, path, contact, &result); err != nil {
		return nil, fmt.Errorf("updating contact: %w", err)
	}
	return &result, nil
}

// DeleteContact deletes a contact by ID.
func (c *Client) DeleteContact(ctx context.Context, contactID int64) error {
	path := fmt.Sprintf("/contacts/%d", contactID)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}
	return nil
}

// FindItemByName returns the first item matching the given name,
// or nil if no item matches.
func (c *Client) FindItemByName(ctx context.Context, name string) (*Item, error) {
	params := url.Values{}
	params.Set("name", name)

	var result itemListResponse
	if err := c.doRequest(ctx, http.MethodGet, "/products?"+params.Encode(), nil, &result); err != nil {
		return nil, fmt.Errorf("finding item by name: %w", err)
	}

	if len(result.Data) == 0 {
		return nil, nil
	}
	return &result.Data[0], nil
}

// FindItemBySKU returns the first item matching the given SKU,
// or nil if no item matches.
func (c *Client) FindItemBySKU(ctx context.Context, sku string) (*Item, error) {
	params := url.Values{}
	params.Set("sku", sku)

	var result itemListResponse
	if err := c.doRequest(ctx, http.MethodGet, "/products?"+params.Encode(), nil, &result); err != nil {
		return nil, fmt.Errorf("finding item by SKU: %w", err)
	}

	if len(result.Data) == 0 {
		return nil, nil
	}
	return &result.Data[0], nil
}

// Items returns all catalog items, handling pagination automatically.
func (c *Client) Items(ctx context.Context) ([]Item, error) {
	var all []Item

	for page := 1; ; page++ {
		var result itemListResponse
		if err := c.doRequest(ctx, http.MethodGet, listPath("/products", page), nil, &result); err != nil {
			return nil, fmt.Errorf("listing items: %w", err)
		}

		all = append(all, result.Data...)
		if result.Paging.LastPage <= page {
			break
		}
	}

	return all, nil
}

// CreateItem creates a new catalog item and returns the created record.
func (c *Client) CreateItem(ctx context.Context, item *Item) (*Item, error) {
	var result Item
	if err := c.doRequest(ctx, http.MethodPost, "/products", item, &result); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return &result, nil
}

// UpdateItem updates an existing catalog item by ID and returns the updated record.
func (c *Client) UpdateItem(ctx context.Context, itemID int64, item *Item) (*Item, error) {
	var result Item
	path := fmt.Sprintf("/products/%d", itemID)
	if err := c.doRequest(ctx, http.MethodPut, path, item, &result); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return &result, nil
}

// DeleteItem deletes a catalog item by ID.
func (c *Client) DeleteItem(ctx context.Context, itemID int64) error {
	path := fmt.Sprintf("/products/%d", itemID)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// FindTransactionByNumber returns the first sales invoice matching the given
// transaction number, or nil if no transaction matches.
func (c *Client) FindTransactionByNumber(ctx context.Context, number string) (*Transaction, error) {
	params := url.Values{}
	params.Set("number", number)

	var result transactionListResponse
	if err := c.doRequest(ctx, http.MethodGet, "/sales/invoices?"+params.Encode(), nil, &result); err != nil {
		return nil, fmt.Errorf("finding transaction by number: %w", err)
	}

	if len(result.Data) == 0 {
		return nil, nil
	}
	return &result.Data[0], nil
}

// TransactionsByContact returns all sales invoices for a contact,
// handling pagination automatically.
func (c *Client) TransactionsByContact(ctx context.Context, contactID int64) ([]Transaction, error) {
	var all []Transaction

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("contact_id", strconv.FormatInt(contactID, 10))
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(listPageSize))

		var result transactionListResponse
		if err := c.doRequest(ctx, http.MethodGet, "/sales/invoices?"+params.Encode(), nil, &result); err != nil {
			return nil, fmt.Errorf("listing transactions: %w", err)
		}

		all = append(all, result.Data...)
		if result.Paging.LastPage <= page {
			break
		}
	}

	return all, nil
}

// CreateTransaction creates a new sales invoice and returns the created record.
func (c *Client) CreateTransaction(ctx context.Context, txn *Transaction) (*Transaction, error) {
	var result transactionResponse
	if err := c.doRequest(ctx, http.MethodPost, "/sales/invoices", txn, &result); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}
	return &result.Transaction, nil
}

// UpdateTransaction updates an existing sales invoice by ID and returns the
// updated record.
func (c *Client) UpdateTransaction(ctx context.Context, txnID int64, txn *Transaction) (*Transaction, error) {
	var result transactionResponse
	path := fmt.Sprintf("/sales/invoices/%d", txnID)
	if err := c.doRequest(ctx, http.MethodPut, path, txn, &result); err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}
	return &result.Transaction, nil
}

// DeleteTransaction deletes a sales invoice by ID.
func (c *Client) DeleteTransaction(ctx context.Context, txnID int64) error {
	path := fmt.Sprintf("/sales/invoices/%d", txnID)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	return nil
}

// doRequest executes an HTTP request with authentication and JSON encoding.
// Application-level rejections are returned as *RemoteError; anything else
// (network, timeout) surfaces as a plain wrapped error.
func (c *Client) doRequest(ctx context.Context, method string, path string, body any, result any) error {
	token, err := c.tokens.APIToken(ctx)
	if err != nil {
		return fmt.Errorf("getting API token: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)

		var errResp errorResponse
		_ = json.Unmarshal(respBody, &errResp)

		return &RemoteError{
			Message:    errResp.Message,
			StatusCode: resp.StatusCode,
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

// listPath builds a paginated list path.
func listPath(path string, page int) string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(listPageSize))
	return path + "?" + params.Encode()
}
