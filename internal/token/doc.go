// Package token defines the tokens of fixture expressions: annotations such
// as "Union[User, AnonymousUser]", parameters such as "qs: Type[_QS]" and
// call values such as "Manager.from_queryset(BookQuerySet, 'Books')".
// Invariants:
//   - Token.Span is where Token.Text starts in the rendered module.
//   - Token.Text of an Ident is NFKC-normalized; every other Text is a slice
//     of the source.
package token
