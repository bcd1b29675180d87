package receipt

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pkaleta/paragon/internal/parse"
)

type mockDB struct {
	receipts map[string]*Receipt
	saveErr  error
}

func newMockDB() *mockDB {
	return &mockDB{receipts: make(map[string]*Receipt)}
}

func (m *mockDB) SaveReceipt(r *Receipt) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.receipts[r.ID] = r
	return nil
}

func (m *mockDB) GetReceipt(id string) (*Receipt, error) {
	r, ok := m.receipts[id]
	if !ok {
		return nil, errors.New("receipt not found")
	}
	return r, nil
}

func (m *mockDB) ListReceipts() ([]*Receipt, error) {
	out := make([]*Receipt, 0, len(m.receipts))
	for _, r := range m.receipts {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockDB) DeleteReceipt(id string) error {
	delete(m.receipts, id)
	return nil
}

func (m *mockDB) Close() error { return nil }

type mockStorage struct {
	files   map[string][]byte
	deleted []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{files: make(map[string][]byte)}
}

func (m *mockStorage) Save(filename string, data []byte) (string, error) {
	m.files[filename] = data
	return filename, nil
}

func (m *mockStorage) ExportJSON(filename string, v any) (string, error) {
	m.files[filename] = []byte("{}")
	return filename, nil
}

func (m *mockStorage) Get(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

func (m *mockStorage) Delete(path string) error {
	delete(m.files, path)
	m.deleted = append(m.deleted, path)
	return nil
}

type mockReader struct {
	lines []string
	err   error
}

func (m *mockReader) ReadLines(imageData []byte, contentType string) ([]string, error) {
	return m.lines, m.err
}

func (m *mockReader) Close() error { return nil }

type fixedIDGenerator struct{ id string }

func (g *fixedIDGenerator) Generate() string { return g.id }

type fixedTimeSource struct{ now time.Time }

func (t *fixedTimeSource) Now() time.Time { return t.now }

var _ = Describe("Service", func() {
	var (
		db      *mockDB
		storage *mockStorage
		reader  *mockReader
		service *Service
		now     time.Time
	)

	BeforeEach(func() {
		db = newMockDB()
		storage = newMockStorage()
		now = time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
		reader = &mockReader{lines: []string{
			"SKLEP ABC",
			"2025-03-04 KASA 1",
			"PARAGON FISKALNY",
			"MLEKO 3,99 3,99A",
			"SPRZEDAZ OPODATKOWANA A 3,99",
			"SUMA PLN 3,99",
			"ABC 1234567890",
			"14:32 Karta",
		}}
		service = NewServiceWithDeps(
			db, reader, parse.New(), storage,
			&fixedIDGenerator{id: "test-id"},
			&fixedTimeSource{now: now},
		)
	})

	Describe("ProcessImage", func() {
		var (
			rec *Receipt
			err error
		)

		JustBeforeEach(func() {
			rec, err = service.ProcessImage([]byte("image bytes"), "image/jpeg", "paragon.jpg")
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should assign the generated ID and timestamps", func() {
			Expect(rec.ID).To(Equal("test-id"))
			Expect(rec.CreatedAt).To(Equal(now))
			Expect(rec.UpdatedAt).To(Equal(now))
		})

		It("should store the original image under the ID", func() {
			Expect(storage.files).To(HaveKey("test-id_paragon.jpg"))
		})

		It("should export the parsed result as JSON", func() {
			Expect(storage.files).To(HaveKey("test-id.json"))
		})

		It("should persist the receipt", func() {
			saved, getErr := db.GetReceipt("test-id")
			Expect(getErr).NotTo(HaveOccurred())
			Expect(saved.Parsed.PaymentMethod).To(Equal(parse.PaymentCard))
			Expect(*saved.Parsed.Total).To(Equal(3.99))
		})

		When("the transcription fails", func() {
			BeforeEach(func() {
				reader.err = errors.New("provider down")
			})

			It("should return the error", func() {
				Expect(err).To(HaveOccurred())
			})

			It("should clean up the stored image", func() {
				Expect(storage.deleted).To(ContainElement("test-id_paragon.jpg"))
			})
		})

		When("the text has no receipt structure", func() {
			BeforeEach(func() {
				reader.lines = []string{"NOTATKA", "BEZ TRESCI"}
			})

			It("should return the interpretation error", func() {
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, parse.ErrAnchorNotFound)).To(BeTrue())
			})
		})
	})

	Describe("ParseLines", func() {
		It("should interpret text without touching image storage", func() {
			rec, err := service.ParseLines(reader.lines, "transcript.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.ContentType).To(Equal("text/plain"))
			Expect(rec.SourceFile).To(Equal("transcript.txt"))
			Expect(rec.Parsed.Items).To(HaveLen(1))
		})
	})

	Describe("DeleteReceipt", func() {
		It("should remove the record and the stored artifacts", func() {
			_, err := service.ProcessImage([]byte("image bytes"), "image/jpeg", "paragon.jpg")
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteReceipt("test-id")).To(Succeed())
			Expect(storage.files).NotTo(HaveKey("test-id_paragon.jpg"))
			Expect(storage.files).NotTo(HaveKey("test-id.json"))

			_, err = db.GetReceipt("test-id")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("sanitizeFilename", func() {
	It("should keep safe characters", func() {
		Expect(sanitizeFilename("paragon-01.jpg")).To(Equal("paragon-01.jpg"))
	})

	It("should replace unsafe characters", func() {
		Expect(sanitizeFilename("mój paragon.jpg")).To(Equal("m_j_paragon.jpg"))
	})

	It("should strip directory components", func() {
		Expect(sanitizeFilename("../../etc/passwd")).To(Equal("passwd"))
	})

	It("should never return an empty name", func() {
		Expect(sanitizeFilename("")).To(Equal("upload"))
	})
})
