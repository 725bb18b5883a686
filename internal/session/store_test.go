package session

import (
	"testing"
	"time"
)

func TestStore_PutGetDelete(t *testing.T) {
	st := NewStore()
	now := time.Now()

	st.Put(newSession("a", now))
	st.Put(newSession("b", now.Add(time.Minute)))
	if st.Len() != 2 {
		t.Fatalf("Len = %d, want 2", st.Len())
	}

	if s, ok := st.Get("a"); !ok || s.ID() != "a" {
		t.Fatalf("Get(a) = %v, %v", s, ok)
	}
	if _, ok := st.Delete("a"); !ok {
		t.Fatalf("Delete(a) reported missing")
	}
	if _, ok := st.Get("a"); ok {
		t.Fatalf("a still present after delete")
	}

	expired := st.Expired(now.Add(2 * time.Minute))
	if len(expired) != 1 || expired[0].ID() != "b" || st.Len() != 0 {
		t.Fatalf("Expired = %v, Len = %d", expired, st.Len())
	}
}

func TestState_Paging(t *testing.T) {
	st := newState()
	st.SetPage(5)
	if st.Page != 1 {
		t.Fatalf("page = %d with a single page, want 1", st.Page)
	}

	st.TotalPages = 3
	st.NextPage()
	st.NextPage()
	st.NextPage()
	if st.Page != 3 {
		t.Fatalf("page = %d, want 3", st.Page)
	}
	st.PrevPage()
	if st.Page != 2 {
		t.Fatalf("page = %d, want 2", st.Page)
	}
}
