// Package managers predicts the manager classes the ORM builds at runtime.
//
// Two call shapes create such classes:
//
//	MyManager = BaseManager.from_queryset(MyQuerySet[, "ClassName"])
//	objects = MyQuerySet.as_manager()
//
// During semantic analysis the plugin synthesizes a class that derives from
// the manager and carries every custom queryset method, rebound to the new
// class. The class is published into the symbol tables, and its fullname is
// recorded in the metadata of the manager it derives from so the checker can
// find it again when it types the call itself.
//
// Every step tolerates definitions that are not analyzed yet: it either
// publishes a complete class or asks for another iteration without touching
// any table.
package managers
