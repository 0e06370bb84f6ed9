package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

// memData is one snapshot of the catalog tables.
type memData struct {
	books  map[int64]models.Book
	users  map[int64]models.User
	loans  map[int64]models.Loan
	nextID int64
}

func (d *memData) clone() *memData {
	c := &memData{
		books:  make(map[int64]models.Book, len(d.books)),
		users:  make(map[int64]models.User, len(d.users)),
		loans:  make(map[int64]models.Loan, len(d.loans)),
		nextID: d.nextID,
	}
	for k, v := range d.books {
		c.books[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.loans {
		c.loans[k] = v
	}
	return c
}

func (d *memData) id() int64 {
	d.nextID++
	return d.nextID
}

// memStore is an in-memory repository.Store. Transactions run one at a time
// against a copy of the data which replaces the original on success.
type memStore struct {
	mu   *sync.Mutex
	root *memStore
	data *memData

	// failAvailability makes every UpdateAvailability call fail
	failAvailability error
}

func newMemStore() *memStore {
	s := &memStore{
		mu:   &sync.Mutex{},
		data: &memData{books: map[int64]models.Book{}, users: map[int64]models.User{}, loans: map[int64]models.Loan{}},
	}
	s.root = s
	return s
}

func (s *memStore) inTx() bool { return s.root != s }

// lock guards calls made outside a transaction
func (s *memStore) lock() func() {
	if s.inTx() {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *memStore) Books() repository.BookRepository { return &memBooks{s} }
func (s *memStore) Users() repository.UserRepository { return &memUsers{s} }
func (s *memStore) Loans() repository.LoanRepository { return &memLoans{s} }

func (s *memStore) WithinTransaction(ctx context.Context, fn func(tx repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memStore{mu: s.mu, root: s, data: s.data.clone(), failAvailability: s.failAvailability}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

// test helpers, call outside transactions only

func (s *memStore) addBook(title string, total, available int) models.Book {
	defer s.lock()()
	b := models.Book{ID: s.data.id(), Title: title, Author: "Author", TotalCopies: total, AvailableCopies: available, Version: 1}
	s.data.books[b.ID] = b
	return b
}

func (s *memStore) addUser(name, email string, role models.UserRole) models.User {
	defer s.lock()()
	u := models.User{ID: s.data.id(), FullName: name, Email: email, Role: role, RegisteredAt: time.Now().UTC(), Version: 1}
	s.data.users[u.ID] = u
	return u
}

func (s *memStore) addLoan(l models.Loan) models.Loan {
	defer s.lock()()
	l.ID = s.data.id()
	s.data.loans[l.ID] = l
	return l
}

func (s *memStore) book(id int64) models.Book {
	defer s.lock()()
	return s.data.books[id]
}

func (s *memStore) loan(id int64) (models.Loan, bool) {
	defer s.lock()()
	l, ok := s.data.loans[id]
	return l, ok
}

func (s *memStore) loanCount() int {
	defer s.lock()()
	return len(s.data.loans)
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
}

type memBooks struct{ s *memStore }

func (r *memBooks) List(ctx context.Context) ([]models.Book, error) {
	defer r.s.lock()()
	out := make([]models.Book, 0, len(r.s.data.books))
	for _, b := range r.s.data.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *memBooks) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	defer r.s.lock()()
	b, ok := r.s.data.books[id]
	if !ok {
		return nil, notFound("get book")
	}
	return &b, nil
}

func (r *memBooks) GetForUpdate(ctx context.Context, id int64) (*models.Book, error) {
	return r.GetByID(ctx, id)
}

func (r *memBooks) Create(ctx context.Context, book *models.Book) error {
	defer r.s.lock()()
	book.ID = r.s.data.id()
	book.Version = 1
	r.s.data.books[book.ID] = *book
	return nil
}

func (r *memBooks) Update(ctx context.Context, book *models.Book) error {
	defer r.s.lock()()
	cur, ok := r.s.data.books[book.ID]
	if !ok || cur.Version != book.Version {
		return repository.ErrStaleObject
	}
	book.Version++
	r.s.data.books[book.ID] = *book
	return nil
}

func (r *memBooks) UpdateAvailability(ctx context.Context, book *models.Book) error {
	defer r.s.lock()()
	if r.s.failAvailability != nil {
		return r.s.failAvailability
	}
	cur, ok := r.s.data.books[book.ID]
	if !ok {
		return notFound("update book availability")
	}
	cur.AvailableCopies = book.AvailableCopies
	cur.Version++
	book.Version = cur.Version
	r.s.data.books[book.ID] = cur
	return nil
}

func (r *memBooks) Delete(ctx context.Context, id int64) error {
	defer r.s.lock()()
	if _, ok := r.s.data.books[id]; !ok {
		return notFound("delete book")
	}
	for _, l := range r.s.data.loans {
		if l.BookID == id {
			return fmt.Errorf("delete book: %w", repository.ErrReferenced)
		}
	}
	delete(r.s.data.books, id)
	return nil
}

func (r *memBooks) Count(ctx context.Context) (int64, error) {
	defer r.s.lock()()
	return int64(len(r.s.data.books)), nil
}

type memUsers struct{ s *memStore }

func (r *memUsers) List(ctx context.Context, role *models.UserRole) ([]models.User, error) {
	defer r.s.lock()()
	out := []models.User{}
	for _, u := range r.s.data.users {
		if role == nil || u.Role == *role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, notFound("get user")
	}
	return &u, nil
}

func (r *memUsers) emailTaken(email string, excludeID int64) bool {
	for _, u := range r.s.data.users {
		if u.Email == email && u.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *memUsers) Create(ctx context.Context, user *models.User) error {
	defer r.s.lock()()
	if r.emailTaken(user.Email, 0) {
		return fmt.Errorf("create user: %w", repository.ErrDuplicateEmail)
	}
	user.ID = r.s.data.id()
	user.Version = 1
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *memUsers) Update(ctx context.Context, user *models.User) error {
	defer r.s.lock()()
	cur, ok := r.s.data.users[user.ID]
	if !ok || cur.Version != user.Version {
		return repository.ErrStaleObject
	}
	if r.emailTaken(user.Email, user.ID) {
		return fmt.Errorf("update user: %w", repository.ErrDuplicateEmail)
	}
	user.Version++
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *memUsers) Delete(ctx context.Context, id int64) error {
	defer r.s.lock()()
	if _, ok := r.s.data.users[id]; !ok {
		return notFound("delete user")
	}
	for _, l := range r.s.data.loans {
		if l.UserID == id {
			return fmt.Errorf("delete user: %w", repository.ErrReferenced)
		}
	}
	delete(r.s.data.users, id)
	return nil
}

func (r *memUsers) ExistsWithEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	defer r.s.lock()()
	return r.emailTaken(email, excludeID), nil
}

func (r *memUsers) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, u := range r.s.data.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type memLoans struct{ s *memStore }

func (r *memLoans) withRefs(l models.Loan) models.Loan {
	if b, ok := r.s.data.books[l.BookID]; ok {
		l.Book = &b
	}
	if u, ok := r.s.data.users[l.UserID]; ok {
		l.User = &u
	}
	return l
}

func (r *memLoans) sorted(keep func(models.Loan) bool) []models.Loan {
	out := []models.Loan{}
	for _, l := range r.s.data.loans {
		if keep(l) {
			out = append(out, r.withRefs(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BorrowedAt.Equal(out[j].BorrowedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].BorrowedAt.After(out[j].BorrowedAt)
	})
	return out
}

func (r *memLoans) List(ctx context.Context, status *models.LoanStatus) ([]models.Loan, error) {
	defer r.s.lock()()
	return r.sorted(func(l models.Loan) bool { return status == nil || l.Status == *status }), nil
}

func (r *memLoans) GetByID(ctx context.Context, id int64) (*models.Loan, error) {
	defer r.s.lock()()
	l, ok := r.s.data.loans[id]
	if !ok {
		return nil, notFound("get loan")
	}
	l = r.withRefs(l)
	return &l, nil
}

func (r *memLoans) GetForUpdate(ctx context.Context, id int64) (*models.Loan, error) {
	defer r.s.lock()()
	l, ok := r.s.data.loans[id]
	if !ok {
		return nil, notFound("lock loan")
	}
	return &l, nil
}

func (r *memLoans) Create(ctx context.Context, loan *models.Loan) error {
	defer r.s.lock()()
	if _, ok := r.s.data.books[loan.BookID]; !ok {
		return fmt.Errorf("create loan: %w", repository.ErrReferenced)
	}
	if _, ok := r.s.data.users[loan.UserID]; !ok {
		return fmt.Errorf("create loan: %w", repository.ErrReferenced)
	}
	loan.ID = r.s.data.id()
	stored := *loan
	stored.Book, stored.User = nil, nil
	r.s.data.loans[loan.ID] = stored
	return nil
}

func (r *memLoans) UpdateStatus(ctx context.Context, loan *models.Loan) error {
	defer r.s.lock()()
	cur, ok := r.s.data.loans[loan.ID]
	if !ok {
		return notFound("update loan")
	}
	cur.Status = loan.Status
	cur.ReturnedAt = loan.ReturnedAt
	r.s.data.loans[loan.ID] = cur
	return nil
}

func (r *memLoans) Delete(ctx context.Context, id int64) error {
	defer r.s.lock()()
	delete(r.s.data.loans, id)
	return nil
}

func (r *memLoans) MarkOverdue(ctx context.Context, now time.Time) ([]int64, error) {
	defer r.s.lock()()
	ids := []int64{}
	for id, l := range r.s.data.loans {
		if l.IsOverdueAt(now) {
			l.Status = models.LoanOverdue
			r.s.data.loans[id] = l
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *memLoans) CountActive(ctx context.Context) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, l := range r.s.data.loans {
		if l.Status.Active() {
			n++
		}
	}
	return n, nil
}

func (r *memLoans) CountByBook(ctx context.Context, bookID int64) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, l := range r.s.data.loans {
		if l.BookID == bookID {
			n++
		}
	}
	return n, nil
}

func (r *memLoans) CountByUser(ctx context.Context, userID int64) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, l := range r.s.data.loans {
		if l.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *memLoans) Recent(ctx context.Context, limit int) ([]models.Loan, error) {
	defer r.s.lock()()
	out := r.sorted(func(models.Loan) bool { return true })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
