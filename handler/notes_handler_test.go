package handler

import (
	"net/http"
	"testing"
)

func loggedInUser(t *testing.T, env *testEnv, email string) *http.Cookie {
	t.Helper()
	env.register(t, email, "secret")
	return env.login(t, email, "secret")
}

func createNote(t *testing.T, env *testEnv, cookie *http.Cookie, title, content string) map[string]interface{} {
	t.Helper()

	w := env.do(t, http.MethodPost, "/notes", map[string]string{
		"title":   title,
		"content": content,
	}, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("create note returned %d: %s", w.Code, w.Body.String())
	}
	return decodeBody(t, w)
}

func TestCreateNoteHTTP(t *testing.T) {
	env := newTestEnv(t)
	cookie := loggedInUser(t, env, "alice@example.com")

	note := createNote(t, env, cookie, "Groceries", "milk, eggs")

	if note["title"] != "Groceries" {
		t.Errorf("unexpected title: %v", note["title"])
	}
	if note["content"] != "milk, eggs" {
		t.Errorf("unexpected content: %v", note["content"])
	}
	if note["id"] == "" || note["id"] == nil {
		t.Error("note has no id")
	}
	if note["userId"] == "" || note["userId"] == nil {
		t.Error("note is not attributed to its owner")
	}
}

func TestCreateNoteRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/notes", map[string]string{
		"title":   "Groceries",
		"content": "milk",
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateNoteValidation(t *testing.T) {
	env := newTestEnv(t)
	cookie := loggedInUser(t, env, "alice@example.com")

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing title", map[string]string{"content": "milk"}},
		{"missing content", map[string]string{"title": "Groceries"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/notes", tt.body, cookie)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetNotesScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := loggedInUser(t, env, "alice@example.com")
	bob := loggedInUser(t, env, "bob@example.com")

	createNote(t, env, alice, "Alice note", "a")
	createNote(t, env, bob, "Bob note", "b")

	w := env.do(t, http.MethodGet, "/notes", nil, alice)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var notes []map[string]interface{}
	mustUnmarshal(t, w.Body.Bytes(), &notes)
	if len(notes) != 1 {
		t.Fatalf("expected 1 note for alice, got %d", len(notes))
	}
	if notes[0]["title"] != "Alice note" {
		t.Errorf("unexpected note in alice's list: %v", notes[0]["title"])
	}
}

func TestGetNoteOtherOwnerForbidden(t *testing.T) {
	env := newTestEnv(t)
	alice := loggedInUser(t, env, "alice@example.com")
	bob := loggedInUser(t, env, "bob@example.com")

	note := createNote(t, env, alice, "Private", "alice only")
	id := note["id"].(string)

	w := env.do(t, http.MethodGet, "/notes/"+id, nil, bob)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetNoteUnknownID(t *testing.T) {
	env := newTestEnv(t)
	cookie := loggedInUser(t, env, "alice@example.com")

	w := env.do(t, http.MethodGet, "/notes/does-not-exist", nil, cookie)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateNotePartial(t *testing.T) {
	env := newTestEnv(t)
	cookie := loggedInUser(t, env, "alice@example.com")

	note := createNote(t, env, cookie, "Groceries", "milk")
	id := note["id"].(string)

	w := env.do(t, http.MethodPut, "/notes/"+id, map[string]string{
		"title": "Shopping",
	}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	updated := decodeBody(t, w)
	if updated["title"] != "Shopping" {
		t.Errorf("title not updated: %v", updated["title"])
	}
	if updated["content"] != "milk" {
		t.Errorf("content was clobbered by a partial update: %v", updated["content"])
	}
}

func TestUpdateNoteOtherOwnerForbidden(t *testing.T) {
	env := newTestEnv(t)
	alice := loggedInUser(t, env, "alice@example.com")
	bob := loggedInUser(t, env, "bob@example.com")

	note := createNote(t, env, alice, "Private", "alice only")
	id := note["id"].(string)

	w := env.do(t, http.MethodPut, "/notes/"+id, map[string]string{
		"title": "Hijacked",
	}, bob)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteNoteHTTP(t *testing.T) {
	env := newTestEnv(t)
	cookie := loggedInUser(t, env, "alice@example.com")

	note := createNote(t, env, cookie, "Temp", "delete me")
	id := note["id"].(string)

	w := env.do(t, http.MethodDelete, "/notes/"+id, nil, cookie)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	after := env.do(t, http.MethodGet, "/notes/"+id, nil, cookie)
	if after.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", after.Code)
	}
}

func TestDeleteNoteOtherOwnerForbidden(t *testing.T) {
	env := newTestEnv(t)
	alice := loggedInUser(t, env, "alice@example.com")
	bob := loggedInUser(t, env, "bob@example.com")

	note := createNote(t, env, alice, "Private", "alice only")
	id := note["id"].(string)

	w := env.do(t, http.MethodDelete, "/notes/"+id, nil, bob)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d: %s", w.Code, w.Body.String())
	}

	// The note is untouched.
	got := env.do(t, http.MethodGet, "/notes/"+id, nil, alice)
	if got.Code != http.StatusOK {
		t.Errorf("note disappeared after forbidden delete: %d", got.Code)
	}
}
