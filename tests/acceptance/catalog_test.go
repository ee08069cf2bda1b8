package acceptance

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chesterOps/salem-server/internal/dto"
)

// postForm sends an url-encoded form, the shape product writes arrive
// in when no image files are attached.
func (s *Suite) postForm(method, path, token string, fields url.Values) *http.Response {
	req, err := http.NewRequest(method, s.BaseURL+path, strings.NewReader(fields.Encode()))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) createProduct(adminToken string, fields url.Values) map[string]any {
	resp := s.postForm(http.MethodPost, "/api/v1/products", adminToken, fields)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var product map[string]any
	s.decodeData(resp, &product)
	return product
}

func productFields(title string, price string) url.Values {
	return url.Values{
		"title":       {title},
		"description": {"A very fine item"},
		"price":       {price},
	}
}

func (s *Suite) TestCategoryCreate_RequiresAdmin() {
	resp := s.postJSON("/api/v1/categories", dto.CreateCategoryRequest{Name: "Shoes"})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	customerToken, _ := s.signup("customer-cat@example.com")
	resp = s.doJSON(http.MethodPost, "/api/v1/categories", customerToken, dto.CreateCategoryRequest{Name: "Shoes"})
	s.Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestCategoryLifecycle() {
	admin := s.createAdmin()

	category := s.createCategory(admin, "Summer Sale!")
	s.Equal("summer-sale", category["slug"])
	id := category["id"].(string)

	// Public read by id and by slug.
	for _, key := range []string{id, "summer-sale"} {
		resp := s.doJSON(http.MethodGet, "/api/v1/categories/"+key, "", nil)
		s.Equal(http.StatusOK, resp.StatusCode)
		var got map[string]any
		s.decodeData(resp, &got)
		resp.Body.Close()
		s.Equal(id, got["id"])
	}

	// Rename recomputes the slug.
	newName := "Winter Sale"
	resp := s.doJSON(http.MethodPatch, "/api/v1/categories/"+id, admin, dto.UpdateCategoryRequest{Name: &newName})
	s.Equal(http.StatusOK, resp.StatusCode)
	var updated map[string]any
	s.decodeData(resp, &updated)
	resp.Body.Close()
	s.Equal("winter-sale", updated["slug"])

	resp = s.doJSON(http.MethodDelete, "/api/v1/categories/"+id, admin, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodGet, "/api/v1/categories/"+id, "", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestCategoryList_Envelope() {
	admin := s.createAdmin()
	s.createCategory(admin, "Hats")
	s.createCategory(admin, "Scarves")

	resp, err := http.Get(s.BaseURL + "/api/v1/categories")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var categories []map[string]any
	envelope := s.decodeData(resp, &categories)
	s.Equal("success", envelope.Status)
	s.Require().NotNil(envelope.Length)
	s.Equal(2, *envelope.Length)
	s.Len(categories, 2)
}

func (s *Suite) TestProductLifecycle() {
	admin := s.createAdmin()
	category := s.createCategory(admin, "T-Shirts")

	fields := productFields("Red T-Shirt!", "25.50")
	fields["category"] = []string{category["id"].(string)}
	fields["sizes"] = []string{"S", "M"}
	fields.Set("colors", `[{"name":"Crimson","hex":"#DC143C"}]`)

	product := s.createProduct(admin, fields)
	s.Equal("red-t-shirt", product["slug"])
	s.Equal(25.50, product["price"])
	s.Equal(true, product["published"])
	id := product["id"].(string)

	// Public read by id and by slug.
	for _, key := range []string{id, "red-t-shirt"} {
		resp := s.doJSON(http.MethodGet, "/api/v1/products/"+key, "", nil)
		s.Equal(http.StatusOK, resp.StatusCode)
		var got map[string]any
		s.decodeData(resp, &got)
		resp.Body.Close()
		s.Equal(id, got["id"])
	}

	// Retitle recomputes the slug, other fields survive.
	resp := s.postForm(http.MethodPatch, "/api/v1/products/"+id, admin, url.Values{"title": {"Blue T-Shirt"}})
	s.Equal(http.StatusOK, resp.StatusCode)
	var updated map[string]any
	s.decodeData(resp, &updated)
	resp.Body.Close()
	s.Equal("blue-t-shirt", updated["slug"])
	s.Equal(25.50, updated["price"])

	resp = s.doJSON(http.MethodDelete, "/api/v1/products/"+id, admin, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodGet, "/api/v1/products/"+id, "", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestProductCreate_UnknownCategory() {
	admin := s.createAdmin()

	fields := productFields("Orphan", "10")
	fields["category"] = []string{"00000000-0000-0000-0000-000000000000"}

	resp := s.postForm(http.MethodPost, "/api/v1/products", admin, fields)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestProductWrite_RequiresAdmin() {
	resp := s.postForm(http.MethodPost, "/api/v1/products", "", productFields("Nope", "1"))
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	customer, _ := s.signup("customer-prod@example.com")
	resp = s.postForm(http.MethodPost, "/api/v1/products", customer, productFields("Nope", "1"))
	s.Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestProductQueryGrammar() {
	admin := s.createAdmin()

	s.createProduct(admin, productFields("Cheap Mug", "5"))
	s.createProduct(admin, productFields("Mid Mug", "20"))
	s.createProduct(admin, productFields("Dear Mug", "80"))

	// Range filter plus descending sort.
	resp, err := http.Get(s.BaseURL + "/api/v1/products?price[gte]=10&price[lte]=50&sort=-price")
	s.Require().NoError(err)
	var products []map[string]any
	envelope := s.decodeData(resp, &products)
	resp.Body.Close()
	s.Require().NotNil(envelope.Length)
	s.Equal(1, *envelope.Length)
	s.Equal("Mid Mug", products[0]["title"])

	// Pagination.
	resp, err = http.Get(s.BaseURL + "/api/v1/products?sort=price&limit=2&page=2")
	s.Require().NoError(err)
	products = nil
	s.decodeData(resp, &products)
	resp.Body.Close()
	s.Require().Len(products, 1)
	s.Equal("Dear Mug", products[0]["title"])

	// Projection keeps the listed fields and the id.
	resp, err = http.Get(s.BaseURL + "/api/v1/products?fields=title,price")
	s.Require().NoError(err)
	products = nil
	s.decodeData(resp, &products)
	resp.Body.Close()
	s.Require().NotEmpty(products)
	s.Contains(products[0], "title")
	s.Contains(products[0], "id")
	s.NotContains(products[0], "description")

	// Search.
	resp, err = http.Get(s.BaseURL + "/api/v1/products?search=dear")
	s.Require().NoError(err)
	products = nil
	s.decodeData(resp, &products)
	resp.Body.Close()
	s.Require().Len(products, 1)
	s.Equal("Dear Mug", products[0]["title"])

	// Unknown filter fields are rejected, not ignored.
	resp, err = http.Get(s.BaseURL + "/api/v1/products?password_hash=x")
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestProductsByCategorySlug() {
	admin := s.createAdmin()
	shirts := s.createCategory(admin, "Shirts")
	pants := s.createCategory(admin, "Pants")

	shirtFields := productFields("Linen Shirt", "30")
	shirtFields["category"] = []string{shirts["id"].(string)}
	s.createProduct(admin, shirtFields)

	pantFields := productFields("Chinos", "45")
	pantFields["category"] = []string{pants["id"].(string)}
	s.createProduct(admin, pantFields)

	resp, err := http.Get(s.BaseURL + "/api/v1/products/category/shirts")
	s.Require().NoError(err)
	var products []map[string]any
	s.decodeData(resp, &products)
	resp.Body.Close()
	s.Require().Len(products, 1)
	s.Equal("Linen Shirt", products[0]["title"])

	resp, err = http.Get(s.BaseURL + "/api/v1/products/category/no-such-category")
	s.Require().NoError(err)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestRelatedProducts() {
	admin := s.createAdmin()
	category := s.createCategory(admin, "Mugs")
	categoryID := category["id"].(string)

	inCategory := productFields("Blue Mug", "12")
	inCategory["category"] = []string{categoryID}
	target := s.createProduct(admin, inCategory)

	sibling := productFields("Green Mug", "13")
	sibling["category"] = []string{categoryID}
	siblingProduct := s.createProduct(admin, sibling)

	outsider := s.createProduct(admin, productFields("Lone Poster", "9"))

	resp, err := http.Get(s.BaseURL + "/api/v1/products/" + target["id"].(string) + "/related")
	s.Require().NoError(err)
	var related []map[string]any
	s.decodeData(resp, &related)
	resp.Body.Close()
	s.Require().Len(related, 1)
	s.Equal(siblingProduct["id"], related[0]["id"])

	// A product with no shared category or tag still gets company.
	resp, err = http.Get(s.BaseURL + "/api/v1/products/" + outsider["id"].(string) + "/related")
	s.Require().NoError(err)
	related = nil
	s.decodeData(resp, &related)
	resp.Body.Close()
	s.NotEmpty(related)
	for _, p := range related {
		s.NotEqual(outsider["id"], p["id"])
	}
}

func (s *Suite) TestCategoryDelete_UnlinksProducts() {
	admin := s.createAdmin()
	category := s.createCategory(admin, "Doomed")
	categoryID := category["id"].(string)

	fields := productFields("Survivor", "15")
	fields["category"] = []string{categoryID}
	product := s.createProduct(admin, fields)
	productID := product["id"].(string)

	resp := s.doJSON(http.MethodDelete, "/api/v1/categories/"+categoryID, admin, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// The unlink runs after the response; poll until it lands.
	s.Eventually(func() bool {
		resp := s.doJSON(http.MethodGet, "/api/v1/products/"+productID, "", nil)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return false
		}
		var got map[string]any
		s.decodeData(resp, &got)
		categories, _ := got["category"].([]any)
		return len(categories) == 0
	}, 3*time.Second, 50*time.Millisecond, "product should lose the deleted category")
}

func (s *Suite) TestUserEndpoints_AdminOnly() {
	customer, _ := s.signup("plain-user@example.com")

	resp := s.doJSON(http.MethodGet, "/api/v1/users", customer, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodGet, "/api/v1/users", "", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	admin := s.createAdmin()
	resp = s.doJSON(http.MethodGet, "/api/v1/users", admin, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var users []map[string]any
	envelope := s.decodeData(resp, &users)
	resp.Body.Close()
	s.Require().NotNil(envelope.Length)
	s.GreaterOrEqual(*envelope.Length, 2)
}

func (s *Suite) TestUserUpdateAndDelete() {
	admin := s.createAdmin()
	s.signup("promote-me@example.com")

	resp := s.doJSON(http.MethodGet, "/api/v1/users?email=promote-me@example.com", admin, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var users []map[string]any
	s.decodeData(resp, &users)
	resp.Body.Close()
	s.Require().Len(users, 1)
	id := users[0]["id"].(string)

	role := "admin"
	resp = s.doJSON(http.MethodPatch, "/api/v1/users/"+id, admin, dto.UpdateUserRequest{Role: &role})
	s.Equal(http.StatusOK, resp.StatusCode)
	var updated map[string]any
	s.decodeData(resp, &updated)
	resp.Body.Close()
	s.Equal("admin", updated["role"])

	resp = s.doJSON(http.MethodDelete, "/api/v1/users/"+id, admin, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodGet, "/api/v1/users/"+id, admin, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
