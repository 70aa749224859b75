package util

//*******************************************
// array
//*******************************************

type Array[T any] []T

func NewArray[T any](size int) Array[T] {
	return make([]T, size)
}

func (self Array[T]) Length() int {
	return len(self)
}

func (self Array[T]) Get(index int) T {
	return self[index]
}

func (self Array[T]) Set(index int, value T) {
	self[index] = value
}

// Reorder returns a new array where the value at index i is moved to mapping[i].
func Reorder[T any](array Array[T], mapping Array[int32]) Array[T] {
	new_array := NewArray[T](array.Length())
	for i, id := range mapping {
		new_array[id] = array[i]
	}
	return new_array
}
