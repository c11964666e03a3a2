package integration

import (
	"net/http"
	"testing"
)

func TestCategoryFlow(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "cat-flow@example.com", "secret123")

	t.Run("create list update delete", func(t *testing.T) {
		catID := app.createCategory(t, access, "Groceries", "expense")

		// List contains the new category
		rec := app.request("GET", "/api/v1/categories", "", access)
		if rec.Code != http.StatusOK {
			t.Fatalf("list failed: %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if len(result["data"].([]interface{})) != 1 {
			t.Fatalf("expected 1 category, got %v", result["total_items"])
		}

		// Rename
		rec = app.request("PATCH", "/api/v1/categories/"+catID, `{"name":"Food Shopping"}`, access)
		if rec.Code != http.StatusOK {
			t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["name"] != "Food Shopping" {
			t.Errorf("expected renamed category, got %v", cat["name"])
		}

		// Delete
		rec = app.request("DELETE", "/api/v1/categories/"+catID, "", access)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete failed: %d", rec.Code)
		}

		rec = app.request("GET", "/api/v1/categories/"+catID, "", access)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", rec.Code)
		}
	})

	t.Run("duplicate name rejected case-insensitively", func(t *testing.T) {
		app.createCategory(t, access, "Rent", "expense")

		rec := app.request("POST", "/api/v1/categories", `{"name":"RENT","type":"expense"}`, access)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		errObj := parseJSON(t, rec)["error"].(map[string]interface{})
		if errObj["code"] != "DUPLICATE_NAME" {
			t.Errorf("expected DUPLICATE_NAME, got %v", errObj["code"])
		}
	})

	t.Run("description is sanitized", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/categories",
			`{"name":"Utilities","type":"expense","description":"<b>power</b>  and   water"}`, access)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["description"] != "power and water" {
			t.Errorf("expected sanitized description, got %q", cat["description"])
		}
	})

	t.Run("delete refused while referenced", func(t *testing.T) {
		catID := app.createCategory(t, access, "Dining", "expense")

		rec := app.request("POST", "/api/v1/transactions",
			`{"category_id":"`+catID+`","type":"expense","amount":25,"description":"team lunch","date":"2024-03-10"}`, access)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("DELETE", "/api/v1/categories/"+catID, "", access)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}
		errObj := parseJSON(t, rec)["error"].(map[string]interface{})
		if errObj["code"] != "CATEGORY_IN_USE" {
			t.Errorf("expected CATEGORY_IN_USE, got %v", errObj["code"])
		}
	})

	t.Run("users cannot see each other's categories", func(t *testing.T) {
		otherAccess, _, _ := app.registerUser(t, "cat-other@example.com", "secret123")
		catID := app.createCategory(t, access, "Private", "expense")

		rec := app.request("GET", "/api/v1/categories/"+catID, "", otherAccess)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for foreign category, got %d", rec.Code)
		}
	})
}
